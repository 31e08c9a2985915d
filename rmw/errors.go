package rmw

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// RetCode is the coarse result of an operation.
type RetCode int

const (
	RetOK                      RetCode = 0
	RetError                   RetCode = 1
	RetTimeout                 RetCode = 2
	RetUnsupported             RetCode = 3
	RetBadAlloc                RetCode = 10
	RetInvalidArgument         RetCode = 11
	RetIncorrectImplementation RetCode = 12
)

var (
	ErrError                   = stderrors.New("error")
	ErrTimeout                 = stderrors.New("timeout")
	ErrBadAlloc                = stderrors.New("failed to allocate")
	ErrInvalidArgument         = stderrors.New("invalid argument")
	ErrIncorrectImplementation = stderrors.New("incorrect rmw implementation")

	// ErrTransport wraps failures reported by the DDS layer.
	ErrTransport = stderrors.New("dds failure")

	// ErrInconsistentTeardown reports an owned resource whose owner was
	// already gone during destruction.
	ErrInconsistentTeardown = stderrors.New("inconsistent teardown")

	ErrAlreadyDestroyed = stderrors.New("already destroyed")
)

// IdentifierMismatchError is returned when a handle created by another
// implementation is passed in.
type IdentifierMismatchError struct {
	Handle string
	Got    string
	Want   string
}

func (e *IdentifierMismatchError) Error() string {
	return fmt.Sprintf("%s implementation '%s' does not match rmw implementation '%s'",
		e.Handle, e.Got, e.Want)
}

func (e *IdentifierMismatchError) Is(target error) bool {
	return target == ErrIncorrectImplementation
}

// Code maps err to a RetCode.
func Code(err error) RetCode {
	switch {
	case err == nil:
		return RetOK
	case stderrors.Is(err, ErrInvalidArgument), stderrors.Is(err, ErrAlreadyDestroyed):
		return RetInvalidArgument
	case stderrors.Is(err, ErrIncorrectImplementation):
		return RetIncorrectImplementation
	case stderrors.Is(err, ErrBadAlloc):
		return RetBadAlloc
	case stderrors.Is(err, ErrTimeout):
		return RetTimeout
	default:
		return RetError
	}
}

// transportError tags err from the DDS layer with ErrTransport and a
// message saying what failed.
func transportError(err error, format string, args ...interface{}) error {
	return errors.Wrapf(&wrapped{kind: ErrTransport, err: err}, format, args...)
}

func invalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// wrapped joins a sentinel and a cause so both match errors.Is.
type wrapped struct {
	kind error
	err  error
}

func (w *wrapped) Error() string {
	return w.err.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.kind, w.err}
}
