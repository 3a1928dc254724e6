package textgen

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrEmptyPrompt indicates an empty prompt was passed to Generate.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrGenerationFailed indicates the model request failed.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrNoContent indicates the model answered without any candidate text.
	ErrNoContent = errors.New("no content returned")

	// ErrRateLimitExceeded indicates the API rate limit was exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrClientCreationFailed indicates a failure in creating the API client.
	ErrClientCreationFailed = errors.New("failed to create API client")
)
