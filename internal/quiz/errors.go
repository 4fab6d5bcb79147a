package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTopic           = errors.New("topic is required")
	ErrGenerationInProgress = errors.New("quiz generation already in progress")

	// ErrGeneration matches every *GenerationError via errors.Is
	ErrGeneration = errors.New("failed to start quiz")

	ErrResetDuringGeneration = errors.New("quiz was reset while questions were being generated")
	ErrNoQuestions           = errors.New("question source returned no questions")
)

// GenerationError reports that the question source could not produce a
// usable question set. The session is left untouched when it is returned.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate quiz for topic %q: %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGeneration, e.Err}
}
