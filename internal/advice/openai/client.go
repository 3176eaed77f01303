// Package openai provides the OpenAI chat-completions client used for trip
// advice.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripweather/tripweather/internal/advice"
	"github.com/tripweather/tripweather/internal/provider/resilience"
)

const (
	// ProviderName identifies this advice provider.
	ProviderName = "openai"

	// DefaultBaseURL is the OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds each completion call.
	DefaultTimeout = 30 * time.Second

	systemInstruction = "You are a travel assistant. Give practical, weather-aware advice " +
		"for the requested trip: what to expect on the way, what to pack, and anything " +
		"worth planning around. Keep it to a few short paragraphs."
)

// ClientConfig holds configuration for the OpenAI client.
type ClientConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenAI).
	BaseURL string

	// Model is the completion model id (optional, defaults to DefaultModel).
	Model string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a single-attempt resilient client is created.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenAI chat-completions client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenAI client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttempt(ProviderName, DefaultTimeout))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// TripAdvice requests advice for travelling between two places on a date.
func (c *Client) TripAdvice(ctx context.Context, origin, destination string, date time.Time) (string, error) {
	prompt := fmt.Sprintf(
		"I am travelling from %s to %s on %s. What should I know about the route, the weather, and what to pack?",
		origin, destination, date.Format("Monday, 2 January 2006"),
	)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().
		Str("model", c.model).
		Str("origin", origin).
		Str("destination", destination).
		Msg("requesting trip advice")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", advice.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &advice.Error{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", advice.ErrProviderUnavailable)
	}

	return completion.Choices[0].Message.Content, nil
}

// OpenAI chat-completions request and response structures.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
