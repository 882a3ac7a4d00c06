package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.Endpoint = endpoint
	return cfg
}

func newTestClient(cfg LLMConfig, obs Observer) Client {
	c := NewAnthropicClient(cfg, obs).(*anthropicClient)
	c.backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func writeMessage(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(messagesResponse{
		Model:   "claude-3-haiku-20240307",
		Content: []contentBlock{{Type: "text", Text: text}},
	})
}

func TestAnthropicClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-haiku-20240307", req.Model)
		assert.Equal(t, "system prompt", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "user prompt", req.Messages[0].Content)
		assert.Equal(t, 1500, req.MaxTokens)
		assert.Equal(t, 0.2, req.Temperature)

		writeMessage(w, `{"meetingId":"m1"}`)
	}))
	defer srv.Close()

	client := newTestClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskPrep,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"meetingId":"m1"}`, resp.Text)
	assert.Equal(t, "claude-3-haiku-20240307", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestAnthropicClient_Generate_NoCredential(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = ""

	client := newTestClient(cfg, NoopObserver{})
	assert.False(t, client.Configured())

	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskPrep, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Equal(t, int32(0), hits.Load())
}

func TestAnthropicClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeMessage(w, "late")
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskPrep: {Temperature: 0.2, MaxTokens: 512, TimeoutMs: 50},
	}

	client := newTestClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskPrep, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAnthropicClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0

	client := newTestClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskPrep, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnthropicClient_Generate_RetryOnTransientError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"type":"overloaded_error","message":"busy"}}`))
			return
		}
		writeMessage(w, "ok")
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	client := newTestClient(cfg, NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskPrep, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestAnthropicClient_Generate_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	var captured LLMCallEvent
	client := newTestClient(cfg, &captureObserver{fn: func(e LLMCallEvent) { captured = e }})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskPrep, UserPrompt: "test"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Contains(t, err.Error(), "invalid x-api-key")
	assert.Equal(t, int32(1), attempts.Load())
	assert.Equal(t, "HTTP_401", captured.ErrorCode)
}

func TestAnthropicClient_Generate_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "")
	}))
	defer srv.Close()

	client := newTestClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskPrep, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestAnthropicClient_ObserverCalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "ok")
	}))
	defer srv.Close()

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	client := newTestClient(testConfig(srv.URL), obs)
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskPrep, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, TaskPrep, captured.Task)
	assert.Equal(t, "claude-3-haiku-20240307", captured.Model)
	assert.True(t, captured.Success)
	assert.Equal(t, 1, captured.Attempts)
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
