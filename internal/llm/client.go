package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// GenerateRequest holds the parameters for a model generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of a model generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to a language model for text generation.
type Client interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Configured reports whether a credential is available.
	Configured() bool
}

// anthropicClient implements Client on the Anthropic Messages API.
type anthropicClient struct {
	cfg      LLMConfig
	http     *resty.Client
	observer Observer
	backoff  func() backoff.BackOff
}

// NewAnthropicClient creates a Client for the Messages API at cfg.Endpoint.
func NewAnthropicClient(cfg LLMConfig, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Tasks == nil {
		cfg.Tasks = defaultTasks()
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", cfg.APIVersion)

	return &anthropicClient{
		cfg:      cfg,
		http:     http,
		observer: observer,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *anthropicClient) Configured() bool {
	return c.cfg.Configured()
}

func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	if !c.Configured() {
		c.observer.OnCallComplete(LLMCallEvent{Task: req.Task, Model: c.cfg.Model, ErrorCode: errorCode(ErrNoCredential)})
		return nil, ErrNoCredential
	}

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	if maxTok <= 0 {
		maxTok = 1024
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	body := messagesRequest{
		Model:       c.cfg.Model,
		System:      req.SystemPrompt,
		Messages:    []message{{Role: "user", Content: req.UserPrompt}},
		MaxTokens:   maxTok,
		Temperature: temp,
	}

	var out *messagesResponse
	attempts := 0
	op := func() error {
		attempts++
		resp, err := c.doRequest(ctx, body)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Retryable() {
				return backoff.Permanent(err)
			}
			if errors.Is(err, ErrInvalidOutput) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = resp
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), uint64(c.cfg.MaxRetries)), ctx)
	err := backoff.Retry(op, policy)
	latency := time.Since(start).Milliseconds()

	if err == nil {
		c.observer.OnCallComplete(LLMCallEvent{
			Task:      req.Task,
			Model:     c.cfg.Model,
			LatencyMs: latency,
			Attempts:  attempts,
			Success:   true,
		})
		return &GenerateResponse{
			Text:      joinText(out.Content),
			Model:     out.Model,
			LatencyMs: latency,
		}, nil
	}

	switch {
	case ctx.Err() != nil:
		err = ErrTimeout
	case isConnectionError(err):
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, ErrInvalidOutput):
	default:
		err = fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	}

	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Attempts:  attempts,
		Success:   false,
		ErrorCode: errorCode(err),
	})
	return nil, err
}

func (c *anthropicClient) doRequest(ctx context.Context, body messagesRequest) (*messagesResponse, error) {
	var result messagesResponse
	var failure apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post("/v1/messages")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Message: failure.Error.Message}
	}
	if joinText(result.Content) == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrInvalidOutput)
	}
	return &result, nil
}

func joinText(blocks []contentBlock) string {
	var b strings.Builder
	for _, c := range blocks {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoCredential):
		return "NO_CREDENTIAL"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case StatusCode(err) != 0:
		return fmt.Sprintf("HTTP_%d", StatusCode(err))
	default:
		return "UNKNOWN"
	}
}
