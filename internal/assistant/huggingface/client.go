// Package huggingface provides a client for the Hugging Face hosted
// inference API, used by the assistant for text generation.
//
// Generation requests walk an ordered candidate queue of hosted models:
// the requested task's model first, then the remaining models re-ranked so
// that candidates with failure streaks sink to the back. Each candidate is
// tracked individually in the provider registry.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/terrasense/terrasense/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider family.
	ProviderName = "huggingface"

	// DefaultBaseURL is the hosted inference API base URL.
	DefaultBaseURL = "https://api-inference.huggingface.co/models"

	// minResponseLength rejects degenerate completions; anything shorter
	// falls through to the next candidate.
	minResponseLength = 20
)

// Task selects which model a generation request prefers.
type Task string

// Supported tasks.
const (
	TaskChat           Task = "chat"
	TaskTextGeneration Task = "text_generation"
	TaskSentiment      Task = "sentiment"
	TaskSummarization  Task = "summarization"
)

// DefaultModels maps each task to its hosted model identifier.
var DefaultModels = map[Task]string{
	TaskChat:           "microsoft/DialoGPT-large",
	TaskTextGeneration: "gpt2",
	TaskSentiment:      "distilbert-base-uncased-finetuned-sst-2-english",
	TaskSummarization:  "facebook/bart-large-cnn",
}

// taskOrder fixes the cross-task fallback sequence.
var taskOrder = []Task{TaskChat, TaskTextGeneration, TaskSentiment, TaskSummarization}

// Client errors.
var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("huggingface: API key not configured")

	// ErrUnauthorized is returned on an invalid API key. It aborts the
	// candidate queue: a bad key fails every model identically.
	ErrUnauthorized = errors.New("huggingface: unauthorized")

	// ErrAllModelsFailed is returned when every candidate was tried and
	// none produced a usable completion.
	ErrAllModelsFailed = errors.New("huggingface: all candidate models failed")
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Hugging Face client.
type ClientConfig struct {
	// APIKey is the Hugging Face API token (required for live calls).
	APIKey string

	// BaseURL is the inference API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client is created.
	HTTPClient HTTPDoer

	// Timeout for individual inference requests (default: 30s; model
	// cold starts are slow).
	Timeout time.Duration

	// MaxLength bounds generated sequences (default: 300).
	MaxLength int

	// Temperature controls sampling randomness (default: 0.7).
	Temperature float64

	// Registry tracks per-candidate health. If nil, the global registry
	// is used.
	Registry *resilience.Registry
}

// Client is a Hugging Face inference API client.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  HTTPDoer
	registry    *resilience.Registry
	maxLength   int
	temperature float64
}

// NewClient creates a new Hugging Face client and registers every model
// candidate for health tracking.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	registry := cfg.Registry
	if registry == nil {
		registry = resilience.GlobalRegistry
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:     ProviderName,
			Timeout:  timeout,
			Registry: registry,
		})
	}

	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 300
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	for _, task := range taskOrder {
		registry.RegisterName(candidateName(DefaultModels[task]))
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		httpClient:  httpClient,
		registry:    registry,
		maxLength:   maxLength,
		temperature: temperature,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Generate produces a completion for a chat prompt. It satisfies the
// assistant's Generator interface.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Query(ctx, TaskChat, prompt)
}

// Query produces a completion for a prompt, preferring the model registered
// for the given task and falling back through the remaining candidates.
func (c *Client) Query(ctx context.Context, task Task, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	var lastErr error
	for _, model := range c.candidates(task) {
		name := candidateName(model)

		text, err := c.queryModel(ctx, model, prompt)
		if err != nil {
			c.registry.RecordFailure(name, err)
			lastErr = err
			if errors.Is(err, ErrUnauthorized) {
				break
			}
			continue
		}

		c.registry.RecordSuccess(name)
		return text, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrAllModelsFailed, lastErr)
	}
	return "", ErrAllModelsFailed
}

// candidates builds the priority queue of models for a task: the task's own
// model first, then the rest in fixed order, re-ranked so that candidates
// with longer failure streaks are tried later.
func (c *Client) candidates(task Task) []string {
	models := make([]string, 0, len(taskOrder))
	if m, ok := DefaultModels[task]; ok {
		models = append(models, m)
	}
	for _, t := range taskOrder {
		m := DefaultModels[t]
		if len(models) == 0 || models[0] != m {
			models = append(models, m)
		}
	}

	sort.SliceStable(models, func(i, j int) bool {
		return c.registry.ConsecutiveFailures(candidateName(models[i])) <
			c.registry.ConsecutiveFailures(candidateName(models[j]))
	})

	return models
}

func (c *Client) queryModel(ctx context.Context, model, prompt string) (string, error) {
	payload := inferenceRequest{
		Inputs: prompt,
		Parameters: inferenceParameters{
			MaxLength:   c.maxLength,
			Temperature: c.temperature,
			TopP:        0.9,
			DoSample:    true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", ErrUnauthorized
	default:
		return "", fmt.Errorf("model %s: unexpected status code: %d", model, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	text, err := extractGeneratedText(raw)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", model, err)
	}

	// Some models echo the prompt before the continuation.
	text = strings.TrimSpace(strings.TrimPrefix(text, prompt))
	if len(text) < minResponseLength {
		return "", fmt.Errorf("model %s: response too short: %q", model, text)
	}

	return text, nil
}

// extractGeneratedText handles the two response shapes hosted text models
// return: a list of generations or a single object.
func extractGeneratedText(raw json.RawMessage) (string, error) {
	var list []generation
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 || list[0].GeneratedText == "" {
			return "", errors.New("no text in response")
		}
		return list[0].GeneratedText, nil
	}

	var single generation
	if err := json.Unmarshal(raw, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText, nil
	}

	return "", errors.New("no text in response")
}

func candidateName(model string) string {
	return ProviderName + ":" + model
}

// Hugging Face inference API structures.

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	DoSample    bool    `json:"do_sample"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}
