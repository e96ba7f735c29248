package gamestream

import "errors"

// Every operation surfaces exactly one of these sentinels, wrapped with
// request context. Callers branch with errors.Is; there is no shared
// last-error state.
var (
	// ErrIO indicates a transport failure. The caller may retry.
	ErrIO = errors.New("gamestream: transport failure")

	// ErrHost indicates the host answered with an error status code.
	ErrHost = errors.New("gamestream: host reported an error")

	// ErrMissingField indicates a required field was absent from an
	// otherwise well-formed host response. Fatal for the attempt.
	ErrMissingField = errors.New("gamestream: required field missing from host response")

	// ErrInvalidResponse indicates a response that could not be parsed.
	ErrInvalidResponse = errors.New("gamestream: malformed host response")

	// ErrWrongState indicates a precondition violation (already paired,
	// or the host is busy running an application).
	ErrWrongState = errors.New("gamestream: operation not valid in current state")

	// ErrUnsupportedVersion indicates the host's major version is outside
	// the supported range. The wrapped message says which direction.
	ErrUnsupportedVersion = errors.New("gamestream: unsupported host version")

	// ErrNotSupported4K indicates a 4K launch request against a host
	// whose codec support mask lacks 4K.
	ErrNotSupported4K = errors.New("gamestream: host does not support 4K streaming")

	// ErrPairingFailed indicates the handshake was rejected or a
	// cryptographic check failed. Signature failures are treated as a
	// potential man-in-the-middle and are never retried automatically.
	ErrPairingFailed = errors.New("gamestream: pairing failed")

	// ErrFailed indicates a host-reported operation failure, such as a
	// zero session id on launch or a "0" cancel result.
	ErrFailed = errors.New("gamestream: host rejected the operation")
)
