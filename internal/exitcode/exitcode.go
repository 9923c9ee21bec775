// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including operations that had
	// nothing to do and declined confirmations.
	Success = 0

	// UserError indicates a user error (bad args, invalid text, unknown task).
	UserError = 1

	// ConfigError indicates a config or auth error.
	ConfigError = 2

	// StorageError indicates the task list could not be saved or the storage
	// backend could not be reached.
	StorageError = 3
)
