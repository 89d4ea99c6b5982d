package lifecycle

// notInitializedError signals generate/reset without a live session, for
// 409 mapping.
type notInitializedError struct{}

func (notInitializedError) Error() string { return "not initialized" }

// ErrNotInitialized returns the error used when no live session exists.
func ErrNotInitialized() error { return notInitializedError{} }

// IsNotInitialized reports whether err indicates a missing session.
func IsNotInitialized(err error) bool {
	_, ok := err.(notInitializedError)
	return ok
}

// unsupportedError signals that the capability probe found no usable
// backend, for 503 mapping.
type unsupportedError struct{}

func (unsupportedError) Error() string {
	return "host environment is not supported: no usable compute backend"
}

// ErrUnsupported returns the error used for unsupported hosts.
func ErrUnsupported() error { return unsupportedError{} }

// IsUnsupported reports whether err indicates an unsupported host.
func IsUnsupported(err error) bool {
	_, ok := err.(unsupportedError)
	return ok
}
