package openai

import "errors"

var (
	// ErrNoChoices is returned when the model responds without any choices.
	ErrNoChoices = errors.New("model returned no choices")
)
