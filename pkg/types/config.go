package types

import "time"

// InferenceConfig holds settings for the chat-completions inference service.
type InferenceConfig struct {
	// Model is the model identifier (e.g. "openai/gpt-4o").
	Model string `json:"model" yaml:"model"`

	// Endpoint is the base URL of the inference service
	// (default "https://models.github.ai/inference").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Token is the bearer token for the inference service.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Temperature is the base sampling temperature (0.0-1.0, default 0.7).
	// The ideation stage runs 0.1 above this; the ranking stage always
	// runs at 0.2.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the nucleus-sampling parameter (fixed at 1.0).
	TopP float64 `json:"top_p" yaml:"top_p"`

	// MaxTokens caps the response length per stage (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed stage calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request HTTP timeout (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PrimerConfig holds settings for the mechanism primer pool.
type PrimerConfig struct {
	// Path is the primer file location (default "./primer.yaml").
	Path string `json:"path" yaml:"path"`

	// Samples is the number of mechanisms drawn per round (default 6).
	Samples int `json:"samples" yaml:"samples"`
}

// OutputConfig holds settings for console output.
type OutputConfig struct {
	// Verbose additionally prints the unranked ideation text and the
	// raw ranking payload.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// TopN is the number of ranked ideas to display (default 3).
	TopN int `json:"top_n" yaml:"top_n"`
}

// HistoryConfig holds settings for the optional run-history ledger.
type HistoryConfig struct {
	// Enabled controls whether finished rounds are appended to the ledger.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the ledger database (default ".ideation").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all configuration for one round.
type PipelineConfig struct {
	Inference InferenceConfig `json:"inference" yaml:"inference"`
	Primer    PrimerConfig    `json:"primer" yaml:"primer"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
