package output_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"todos/internal/output"
	"todos/internal/tasklist"
	"todos/internal/testutil"
)

func sampleTasks() []tasklist.Task {
	created := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	return []tasklist.Task{
		{ID: 2000, Text: "Pay rent", Completed: true, CreatedAt: created.Add(time.Second)},
		{ID: 1000, Text: "Buy milk", CreatedAt: created},
	}
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task tasklist.Task
		want string
	}{
		{"active", 1, tasklist.Task{Text: "Buy milk"}, "   1  [ ] Buy milk\n"},
		{"completed", 12, tasklist.Task{Text: "Pay rent", Completed: true}, "  12  [x] Pay rent\n"},
		{"newlines", 3, tasklist.Task{Text: "line one\nline two"}, "   3  [ ] line one line two\n"},
		{"markup kept raw", 4, tasklist.Task{Text: "<b>bold</b>"}, "   4  [ ] <b>bold</b>\n"},
		{"escape sequence", 5, tasklist.Task{Text: "\x1b]52;c;ZXZpbA==\a\x1b[2Jok"}, "   5  [ ] \uFFFD]52;c;ZXZpbA==\uFFFD\uFFFD[2Jok\n"},
		{"tab and C1", 6, tasklist.Task{Text: "a\tb\u009bc"}, "   6  [ ] a b\uFFFDc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"caf\u00e9 \u2713", "caf\u00e9 \u2713"},
		{"one\r\ntwo", "one  two"},
		{"\x00\x7f", "\uFFFD\uFFFD"},
		{"\x1b[31mred", "\uFFFD[31mred"},
	}

	for _, tt := range tests {
		if got := output.SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTaskLong(t *testing.T) {
	task := sampleTasks()[1]

	var buf bytes.Buffer
	output.FormatTaskLong(&buf, 2, task, "", time.UTC)
	want := "   2  [ ] Buy milk  (16/10/2026, 12:00:00)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	output.FormatTaskLong(&buf, 2, task, time.RFC3339, time.FixedZone("BRT", -3*3600))
	want = "   2  [ ] Buy milk  (2026-10-16T09:00:00-03:00)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatFooter(t *testing.T) {
	var buf bytes.Buffer
	output.FormatFooter(&buf, tasklist.Stats{Total: 3, Active: 2, Completed: 1})
	want := "------------\ntotal: 3  active: 2  completed: 1\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestEmptyMessage(t *testing.T) {
	if got := output.EmptyMessage(tasklist.FilterAll); got != "no tasks found" {
		t.Errorf("all: got %q", got)
	}
	if got := output.EmptyMessage(tasklist.FilterActive); got != "no active tasks" {
		t.Errorf("active: got %q", got)
	}
	if got := output.EmptyMessage(tasklist.FilterCompleted); got != "no completed tasks" {
		t.Errorf("completed: got %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]output.Format{
		"json": output.FormatJSON,
		"JSON": output.FormatJSON,
		"yaml": output.FormatYAML,
		"yml":  output.FormatYAML,
	} {
		got, err := output.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := output.ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Export(&buf, output.FormatJSON, sampleTasks()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	testutil.Golden(t, "export_json", buf.Bytes())
}

func TestExportJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Export(&buf, output.FormatJSON, nil); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Export(&buf, output.FormatYAML, sampleTasks()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "- id: 2000\n  text: Pay rent\n  completed: true\n") {
		t.Errorf("unexpected yaml:\n%s", buf.String())
	}

	var got []tasklist.Task
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, sampleTasks()) {
		t.Errorf("expected %+v, got %+v", sampleTasks(), got)
	}
}
