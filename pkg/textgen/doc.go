// Package textgen provides a single-call text generation interface with
// Google Gemini and OpenAI backends.
//
// A Generator takes one prompt and returns the model's raw reply. It does
// not retry, stream or post-process; callers own parsing of the reply.
//
//	gen, err := textgen.NewGoogle(ctx, apiKey,
//		textgen.WithGoogleModel("gemini-1.5-flash"),
//	)
//	if err != nil {
//		return err
//	}
//	text, err := gen.Generate(ctx, prompt)
//
// OpenAI is configured the same way:
//
//	gen, err := textgen.NewOpenAI(apiKey, textgen.WithOpenAIModel("gpt-4o-mini"))
//
// # Errors
//
// Request failures wrap ErrGenerationFailed. OpenAI authentication and
// throttling responses additionally match ErrInvalidAPIKey and
// ErrRateLimitExceeded. A reply with no candidates returns ErrNoContent.
//
// For tests, GeneratorFunc turns a closure into a Generator.
package textgen
