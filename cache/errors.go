package cache

import "fmt"

// Error kinds shared by every Store implementation
// Use errors.Is to classify an error returned through a completion
var (
	// ErrDecode is returned when the persisted snapshot cannot be decoded
	ErrDecode = fmt.Errorf("cache: malformed snapshot")
	// ErrEncode is returned when a snapshot cannot be encoded for storage
	ErrEncode = fmt.Errorf("cache: cannot encode snapshot")
	// ErrIO is returned when the storage medium cannot be read or written
	ErrIO = fmt.Errorf("cache: storage unavailable")
	// ErrBackendInit is returned when a backend cannot initialize its storage medium
	ErrBackendInit = fmt.Errorf("cache: backend initialization failed")
	// ErrStoreClosed is returned for operations submitted after Close
	ErrStoreClosed = fmt.Errorf("cache: store is closed")
)

// DecodeError wraps a decoding failure
func DecodeError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecode, err)
}

// EncodeError wraps an encoding failure
func EncodeError(err error) error {
	return fmt.Errorf("%w: %w", ErrEncode, err)
}

// IOError wraps a failure of the storage medium
func IOError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// BackendInitError wraps a failure to set up a backend
func BackendInitError(err error) error {
	return fmt.Errorf("%w: %w", ErrBackendInit, err)
}
