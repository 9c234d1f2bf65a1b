package oracle

import (
	"errors"
	"fmt"
)

// ErrorCode is a high-level error category, distinct from the in-band
// CommandResult statuses (OK/ERR/TIMEOUT) which are not program errors.
type ErrorCode string

const (
	ErrCodeInputInvalid ErrorCode = "input invalid"
	ErrCodeIO           ErrorCode = "I/O error"
)

// Error is a structured error carrying the operation and file context
// that produced it, mirroring the teacher's op+context error shape.
type Error struct {
	Op    string // operation that failed, e.g. "parse seed", "run-matrix"
	Path  string // file path involved, if any
	Code  ErrorCode
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("oracle: %s: %s (%s)", e.Op, msg, e.Path)
	case e.Op != "":
		return fmt.Sprintf("oracle: %s: %s", e.Op, msg)
	default:
		return fmt.Sprintf("oracle: %s", msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewInputError reports a config/seed parse failure or unknown enum
// value, fatal to the affected operation.
func NewInputError(op, path string, inner error) *Error {
	msg := ""
	if inner != nil {
		msg = inner.Error()
	}
	return &Error{Op: op, Path: path, Code: ErrCodeInputInvalid, Msg: msg, Inner: inner}
}

// NewIOError reports a failure to create an output dir/file, fatal to
// the affected run (counted and skipped in matrix mode).
func NewIOError(op, path string, inner error) *Error {
	msg := ""
	if inner != nil {
		msg = inner.Error()
	}
	return &Error{Op: op, Path: path, Code: ErrCodeIO, Msg: msg, Inner: inner}
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code == code
	}
	return false
}
