package oracle

import (
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

const (
	forecastModel = "google/gemini-2.0-flash-001"
	decisionModel = "google/gemini-2.5-flash"
	answerModel   = "google/gemini-2.0-flash-001"
)

// ErrNoJSON is returned when a model reply carries no extractable JSON
// object.
var ErrNoJSON = errors.New("oracle: no JSON object in model response")

// Client is the structured-completion port over the LLM gateway. The model
// is trusted to return schema-shaped JSON; nothing here verifies factual
// correctness.
type Client struct {
	api *openai.Client
}

// NewClient builds a client against the OpenRouter gateway.
func NewClient(apiKey string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultBaseURL
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// NewClientWithConfig is the injection point for tests and alternate
// gateways.
func NewClientWithConfig(cfg openai.ClientConfig) *Client {
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// ExtractJSON cuts the substring from the first '{' to the last '}'. Models
// routinely wrap their JSON in prose or markdown fences; this is the one
// place that heuristic lives.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}
