package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"todos/internal/tasklist"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num   int   // 1-based position in the full list, 0 if HasID
	ID    int64 // task id, set when HasID
	HasID bool  // true for the @<id> form
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. If the arg is all digits → position in the list as printed by list
// 2. If the arg is @<digits> (e.g. @1792152000000) → task id
// 3. Otherwise → error: invalid task reference: <ref>
//
// Exactly one reference is accepted.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}

	arg := args[0]

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if strings.HasPrefix(arg, "@") && isAllDigits(arg[1:]) {
		id, err := strconv.ParseInt(arg[1:], 10, 64)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id, HasID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// String formats the reference the way it was typed.
func (r TaskRef) String() string {
	if r.HasID {
		return "@" + strconv.FormatInt(r.ID, 10)
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef finds the task a reference points to.
// Positions count over the full list, newest first, as printed by list.
func ResolveTaskRef(store *tasklist.Store, ref TaskRef) (tasklist.Task, error) {
	if ref.HasID {
		task, ok := store.Get(ref.ID)
		if !ok {
			return tasklist.Task{}, fmt.Errorf("task not found: %s", ref)
		}
		return task, nil
	}

	tasks := store.Tasks()
	if ref.Num < 1 || ref.Num > len(tasks) {
		return tasklist.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return tasks[ref.Num-1], nil
}

// resolveArgs parses and resolves a task reference, printing any error.
// ok is false if the command should exit with exitcode.UserError.
func resolveArgs(store *tasklist.Store, args []string, errOut io.Writer) (task tasklist.Task, ok bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return tasklist.Task{}, false
	}
	task, err = ResolveTaskRef(store, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return tasklist.Task{}, false
	}
	return task, true
}
