package llm

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskPrep TaskType = "prep"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the model subsystem. Values come from
// MIDAI_LLM_* environment variables.
type LLMConfig struct {
	Enabled       bool     `envconfig:"ENABLED" default:"true"`
	LogCalls      bool     `envconfig:"LOG_CALLS" default:"false"`
	APIKey        string   `envconfig:"API_KEY"`
	Endpoint      string   `envconfig:"ENDPOINT" default:"https://api.anthropic.com"`
	Model         string   `envconfig:"MODEL" default:"claude-3-haiku-20240307"`
	APIVersion    string   `envconfig:"API_VERSION" default:"2023-06-01"`
	TimeoutMs     int      `envconfig:"TIMEOUT_MS" default:"20000"`
	MaxRetries    int      `envconfig:"MAX_RETRIES" default:"1"`
	PrepTimeoutMs int      `envconfig:"PREP_TIMEOUT_MS"`
	PrepMaxTokens int      `envconfig:"PREP_MAX_TOKENS"`
	Temperature   *float64 `envconfig:"TEMPERATURE"`

	Tasks map[TaskType]TaskConfig `ignored:"true"`
}

// DefaultConfig returns an LLMConfig with no credential. Without a key every
// call fails fast with ErrNoCredential.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    true,
		Endpoint:   "https://api.anthropic.com",
		Model:      "claude-3-haiku-20240307",
		APIVersion: "2023-06-01",
		TimeoutMs:  20000,
		MaxRetries: 1,
		Tasks:      defaultTasks(),
	}
}

func defaultTasks() map[TaskType]TaskConfig {
	return map[TaskType]TaskConfig{
		TaskPrep: {Temperature: 0.2, MaxTokens: 1500, TimeoutMs: 20000},
	}
}

// LoadConfig reads model configuration from the environment. CLAUDE_API_KEY is
// honoured when MIDAI_LLM_API_KEY is unset.
func LoadConfig() (LLMConfig, error) {
	var cfg LLMConfig
	if err := envconfig.Process("midai_llm", &cfg); err != nil {
		return LLMConfig{}, fmt.Errorf("loading llm config: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("CLAUDE_API_KEY")
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	cfg.Tasks = defaultTasks()
	prep := cfg.Tasks[TaskPrep]
	if cfg.PrepTimeoutMs > 0 {
		prep.TimeoutMs = cfg.PrepTimeoutMs
	}
	if cfg.PrepMaxTokens > 0 {
		prep.MaxTokens = cfg.PrepMaxTokens
	}
	if t := cfg.Temperature; t != nil && *t >= 0 && *t <= 1 {
		prep.Temperature = *t
	}
	cfg.Tasks[TaskPrep] = prep
	return cfg, nil
}

// Configured reports whether calls can be attempted at all.
func (c LLMConfig) Configured() bool {
	return c.Enabled && c.APIKey != ""
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}
