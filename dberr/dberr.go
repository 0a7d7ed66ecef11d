// Package dberr defines the error kinds the storage engine can raise
// (spec §7). Every kind is a sentinel that call sites wrap with
// github.com/pkg/errors so a caller can still errors.Is against the
// kind while getting a message chain describing where it happened.
package dberr

import "github.com/pkg/errors"

var (
	// ErrIOError covers open/read/write/seek failures. Fatal.
	ErrIOError = errors.New("io error")
	// ErrCorruptFile means the database file size is not a multiple of the page size.
	ErrCorruptFile = errors.New("corrupt file")
	// ErrPageOutOfRange means a page id at or beyond capacity was requested. Indicates a logic bug.
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrNotFound is returned locally by the delete path; callers report it as a no-op.
	ErrNotFound = errors.New("not found")
	// ErrBadInput covers parse errors, negative integers, and oversize strings. Reported per REPL line.
	ErrBadInput = errors.New("bad input")
)

// Wrap attaches a message to an underlying sentinel, preserving it for errors.Is.
func Wrap(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}
