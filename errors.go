package corotick

import "errors"

// Sentinel error kinds, matched with errors.Is against the errors returned
// by this package's API boundary.
var (
	// ErrInvalidArgument signals a null/out-of-range input at an API boundary.
	ErrInvalidArgument = errors.New("corotick: invalid argument")

	// ErrInvalidState signals an operation attempted in a state that does
	// not support it: a reentrant Tick, a snapshot taken while the executor
	// is executing, or capturing a generator that has never been advanced.
	// Reading an absent result is not an error: Result and GetResult report
	// it through their boolean return.
	ErrInvalidState = errors.New("corotick: invalid state")

	// ErrUnknownGenerator signals that a FrameSnapshot or Generator
	// references a methodId with no registered GeneratorDescriptor.
	ErrUnknownGenerator = errors.New("corotick: unknown generator")

	// ErrDuplicateDescriptor signals Register was called twice for the
	// same Identifier.
	ErrDuplicateDescriptor = errors.New("corotick: duplicate descriptor")

	// ErrSchemaMismatch signals a captured argument or local name that the
	// target descriptor does not recognize, surfaced only in strict mode (by
	// default such keys are silently dropped), or a captured value that an
	// accessor cannot convert to its field's type, surfaced in every mode.
	ErrSchemaMismatch = errors.New("corotick: schema mismatch")

	// ErrProtocolError signals a generator yielded a value that does not
	// conform to CoroutineAction.
	ErrProtocolError = errors.New("corotick: protocol error")
)

// UserError wraps an error raised inside a generator body, surfaced to the
// caller of Tick after the owning thread has been fault-disposed.
type UserError struct {
	Err error
}

func (e *UserError) Error() string { return "corotick: user error: " + e.Err.Error() }

func (e *UserError) Unwrap() error { return e.Err }

// NewUserError wraps err as a UserError. If err is already a *UserError it
// is returned unchanged.
func NewUserError(err error) *UserError {
	if ue, ok := err.(*UserError); ok {
		return ue
	}
	return &UserError{Err: err}
}
