package sfs

import (
	"fmt"
	"syscall"
)

// DiskoError is a sentinel error type for the conditions enumerated in
// spec.md's error handling design (AlreadyMounted, BadSuperblock,
// CorruptPointer, InvalidInode, TooLarge, NoSpace). It exists
// purely for internal diagnostics: logging and Check()'s aggregated report.
// No exported function in this package returns one directly; they all still
// return bool or an int64 byte count / inumber per the public contract in
// spec.md §6-7.
//
// NotMounted has no sentinel here: a *FileSystem can only come into being
// through a successful Mount, so "call an operation before mounting" isn't a
// state this API can represent, let alone needs to report.
type DiskoError struct {
	ErrnoCode syscall.Errno
	message   string
	wrapped   error
}

var (
	errAlreadyMounted = newDiskoError(syscall.EBUSY, "device is already mounted")
	errBadSuperblock  = newDiskoError(syscall.EUCLEAN, "superblock failed validation")
	errCorruptPointer = newDiskoError(syscall.EUCLEAN, "block pointer out of range")
	errInvalidInode   = newDiskoError(syscall.ENOENT, "inode slot is not valid")
	errTooLarge       = newDiskoError(syscall.EFBIG, "write exceeds maximum file size")
	errNoSpace        = newDiskoError(syscall.ENOSPC, "no free blocks remain")
)

func newDiskoError(errnoCode syscall.Errno, message string) *DiskoError {
	return &DiskoError{ErrnoCode: errnoCode, message: message}
}

// Error implements the `error` interface.
func (e *DiskoError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s: %s", e.ErrnoCode.Error(), e.message)
	}
	return e.ErrnoCode.Error()
}

func (e *DiskoError) Unwrap() error {
	return e.wrapped
}

// Is matches another DiskoError with the same errno and message. A value
// built by WithMessage still matches its sentinel under errors.Is, because
// it unwraps to that sentinel.
func (e *DiskoError) Is(target error) bool {
	other, ok := target.(*DiskoError)
	if !ok {
		return false
	}
	return e.ErrnoCode == other.ErrnoCode && e.message == other.message
}

// WithMessage returns a copy of e with additional context appended, so
// errors.Is(result, e) still holds.
func (e *DiskoError) WithMessage(format string, args ...any) *DiskoError {
	return &DiskoError{
		ErrnoCode: e.ErrnoCode,
		message:   fmt.Sprintf("%s (%s)", e.message, fmt.Sprintf(format, args...)),
		wrapped:   e,
	}
}
