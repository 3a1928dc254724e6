package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIDefaultModel is the chat model used when none is configured.
const OpenAIDefaultModel = "gpt-4o-mini"

// OpenAI implements Generator using OpenAI chat completions.
type OpenAI struct {
	client  openai.Client
	model   string
	reqOpts []option.RequestOption
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the model to use.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAI) {
		if client != nil {
			o.reqOpts = append(o.reqOpts, option.WithHTTPClient(client))
		}
	}
}

// WithOpenAIBaseURL overrides the API endpoint, e.g. for compatible gateways.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(o *OpenAI) {
		if url != "" {
			o.reqOpts = append(o.reqOpts, option.WithBaseURL(url))
		}
	}
}

// NewOpenAI creates a chat-completions generator. The SDK's automatic
// retries are disabled: a run makes exactly one model request.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{model: OpenAIDefaultModel}
	for _, opt := range opts {
		opt(o)
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, o.reqOpts...)
	o.client = openai.NewClient(reqOpts...)

	return o, nil
}

// Model returns the configured model name.
func (o *OpenAI) Model() string {
	return o.model
}

// Generate sends the prompt as a single user message and returns the content
// of the first choice.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classifyOpenAIError(o.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoContent, o.model)
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(model string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.Join(ErrGenerationFailed, ErrInvalidAPIKey, err)
		case http.StatusTooManyRequests:
			return errors.Join(ErrGenerationFailed, ErrRateLimitExceeded, err)
		}
	}
	return errors.Join(ErrGenerationFailed, fmt.Errorf("%s: %w", model, err))
}
