// Package jarerr defines the error taxonomy shared by every picklejar layer.
package jarerr

import "errors"

var (
	// ErrUnknownBackend indicates a backend name that is not registered.
	ErrUnknownBackend = errors.New("picklejar: unknown backend")

	// ErrBackendUnavailable indicates a registered backend whose underlying
	// library is not usable in this build or process.
	ErrBackendUnavailable = errors.New("picklejar: backend unavailable")

	// ErrInference indicates that the compression could not be inferred from
	// the target.
	ErrInference = errors.New("picklejar: cannot infer compression")

	// ErrConfiguration indicates a registry registration conflict.
	ErrConfiguration = errors.New("picklejar: configuration conflict")

	// ErrMode indicates a stream that cannot serve the requested mode.
	ErrMode = errors.New("picklejar: stream mode mismatch")

	// ErrUnsupportedMode indicates a backend that cannot operate in the
	// requested mode on the given handle.
	ErrUnsupportedMode = errors.New("picklejar: unsupported mode")

	// ErrInvalidTarget indicates a target that is neither a usable path nor a stream.
	ErrInvalidTarget = errors.New("picklejar: invalid target")
)
