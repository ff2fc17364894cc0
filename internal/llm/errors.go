package llm

import "fmt"

// GenerationError represents a failed call to the upstream model: transport
// failure, an API error response, or a response without text.
type GenerationError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Provider, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
