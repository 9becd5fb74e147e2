package picklejar

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/discochess/picklejar/internal/jarerr"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrUnknownBackend indicates a backend name that is not registered.
	ErrUnknownBackend = jarerr.ErrUnknownBackend

	// ErrBackendUnavailable indicates a registered backend that cannot be
	// used in this build or process.
	ErrBackendUnavailable = jarerr.ErrBackendUnavailable

	// ErrInference indicates the compression could not be derived from the
	// target, either because it is a stream or because its extension is
	// missing or unknown.
	ErrInference = jarerr.ErrInference

	// ErrConfiguration indicates a backend registration conflict.
	ErrConfiguration = jarerr.ErrConfiguration

	// ErrMode indicates a stream that cannot be read or written as requested.
	ErrMode = jarerr.ErrMode

	// ErrUnsupportedMode indicates a backend that cannot operate on the
	// given handle, such as a zip archive on a non-seekable stream.
	ErrUnsupportedMode = jarerr.ErrUnsupportedMode

	// ErrInvalidTarget indicates a target that is neither a path nor a stream.
	ErrInvalidTarget = jarerr.ErrInvalidTarget
)

// suppressedError carries close errors that happened after err.
type suppressedError struct {
	err        error
	suppressed error
}

func (e *suppressedError) Error() string { return e.err.Error() }

func (e *suppressedError) Unwrap() error { return e.err }

// withSuppressed records s as suppressed by err.
func withSuppressed(err, s error) error {
	if se, ok := err.(*suppressedError); ok {
		se.suppressed = multierr.Append(se.suppressed, s)
		return se
	}
	return &suppressedError{err: err, suppressed: s}
}

// Suppressed returns the errors that were raised while releasing resources
// after err had already failed the call. They do not change err's identity.
func Suppressed(err error) []error {
	var se *suppressedError
	if !errors.As(err, &se) {
		return nil
	}
	return multierr.Errors(se.suppressed)
}
