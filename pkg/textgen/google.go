package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GoogleDefaultModel is the Gemini model used when none is configured.
const GoogleDefaultModel = "gemini-1.5-flash"

// Google implements Generator using the Gemini API.
type Google struct {
	client      *genai.Client
	model       string
	baseURL     string
	httpClient  *http.Client
	temperature *float32
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleModel sets the model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(g *Google) {
		if model != "" {
			g.model = model
		}
	}
}

// WithGoogleBaseURL overrides the API endpoint.
func WithGoogleBaseURL(url string) GoogleOption {
	return func(g *Google) {
		g.baseURL = url
	}
}

// WithGoogleHTTPClient sets a custom HTTP client.
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(g *Google) {
		g.httpClient = client
	}
}

// WithGoogleTemperature sets the sampling temperature.
func WithGoogleTemperature(t float32) GoogleOption {
	return func(g *Google) {
		g.temperature = &t
	}
}

// NewGoogle creates a Gemini generator authenticated with an API key.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	g := &Google{model: GoogleDefaultModel}
	for _, opt := range opts {
		opt(g)
	}

	config := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, errors.Join(ErrClientCreationFailed, err)
	}
	g.client = client

	return g, nil
}

// Model returns the configured model name.
func (g *Google) Model() string {
	return g.model
}

// Generate sends the prompt as a single user turn and returns the
// concatenated text of the first candidate.
func (g *Google) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	var config *genai.GenerateContentConfig
	if g.temperature != nil {
		config = &genai.GenerateContentConfig{Temperature: g.temperature}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", errors.Join(ErrGenerationFailed, fmt.Errorf("%s: %w", g.model, err))
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoContent, g.model)
	}

	return resp.Text(), nil
}
