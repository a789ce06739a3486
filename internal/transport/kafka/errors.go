package kafka

// PermanentError marks a failure that retrying cannot fix, such as an
// event that does not encode or a message the handler will never accept.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent returns a permanent error.
func Permanent(err error) error {
	return PermanentError{Err: err}
}
