package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError is an error that, when caught by error handler, should return a user-friendly error response to the user.
// The wrapped error keeps its ErrorKind, so errors.Is(err, errs.NotFound) still works through a PublicError.
type PublicError struct {
	err     error
	message string
}

func (p PublicError) Error() string {
	return p.err.Error()
}

func (p PublicError) Message() string {
	return p.message
}

func (p PublicError) Unwrap() error {
	return p.err
}

// NewPublicError returns a public error of the given kind with a user-facing message.
func NewPublicError(kind ErrorKind, message string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.Wrap(kind, message), message: message}, 1)
}

// WithPublicMessage marks err as safe to show to the caller, prefixed by prefix.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = fmt.Sprintf("%s: %s", prefix, message)
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message}, 1)
}

// Kind returns the first ErrorKind found in err's chain, or SomethingWentWrong.
func Kind(err error) ErrorKind {
	for _, kind := range []ErrorKind{
		InvalidArgument, NotFound, Conflict, Cycle, Unauthorized, Forbidden, Timeout, Unsupported, Storage,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return SomethingWentWrong
}
