package tasks

import "errors"

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrEmbeddingUnavailable is returned when the embedding could not be
	// produced: the service failed, timed out, or returned a vector of the wrong
	// dimension or with non-finite values. Nothing is persisted.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrStore wraps every failure of the task store.
	ErrStore = errors.New("task store error")
)

// ValidationError describes rejected client input. Message is safe to show to
// the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	MsgMissingFields = "Missing required fields"
	MsgInvalidStatus = "Invalid status value"
	MsgTitleTooLong  = "Title too long"
	MsgDescTooLong   = "Description too long"
	MsgMissingQuery  = `Missing query parameter "q"`
)
