package medrec

import "github.com/pkg/errors"

var (
	// ErrIO is returned when the persistence destination or source could not be
	// opened, read or written. The underlying cause is kept in the chain.
	ErrIO = errors.New("persistence io failure")

	ErrInvalidRecord = errors.New("invalid record")
	ErrFieldTooLong  = errors.New("record field is oversize")

	// ErrMalformedLine is never returned by Load, malformed lines are skipped and
	// counted. It is exposed for decodeLine callers.
	ErrMalformedLine = errors.New("malformed record line")
)

// WrapIO marks err as an ErrIO while keeping err itself reachable by errors.Is/As.
func WrapIO(err error, msg string) error {
	if err == nil {
		return nil
	}

	return &persistError{cause: errors.Wrap(err, msg)}
}

type persistError struct {
	cause error
}

func (e *persistError) Error() string { return e.cause.Error() }

func (e *persistError) Unwrap() []error { return []error{ErrIO, e.cause} }
