package types

// GenerateRequest represents a raw completion request payload.
//
// Optional fields are pointers so an explicit zero can be told apart from an
// omitted field; omitted fields receive server defaults.
type GenerateRequest struct {
	// Prompt text to complete. Missing means empty prompt.
	// example: Why is the sky blue?
	Prompt string `json:"prompt" example:"Why is the sky blue?"`
	// Maximum number of new tokens to generate (default 256).
	// example: 128
	MaxTokens *int `json:"max_tokens,omitempty" example:"128"`
	// Sampling temperature (default 0.7).
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
	// Stop sequences (default ["<|eot_id|>"]). An explicit empty list disables stop sequences.
	Stop []string `json:"stop,omitempty"`
}

// GenerateResponse is returned by POST /generate.
type GenerateResponse struct {
	// Generated text, prompt not included.
	// example: Because of Rayleigh scattering.
	Text string `json:"text" example:"Because of Rayleigh scattering."`
	// Token accounting as reported by the engine.
	Usage Usage `json:"usage"`
}

// Usage contains token accounting.
type Usage struct {
	// example: 6
	PromptTokens int `json:"prompt_tokens" example:"6"`
	// example: 5
	CompletionTokens int `json:"completion_tokens" example:"5"`
	// example: 11
	TotalTokens int `json:"total_tokens" example:"11"`
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	// One of system, user, assistant.
	// example: user
	Role string `json:"role" example:"user"`
	// example: Hello!
	Content string `json:"content" example:"Hello!"`
}

// ChatRequest represents a chat completion request payload.
type ChatRequest struct {
	// Ordered conversation turns.
	Messages []ChatMessage `json:"messages"`
	// Maximum number of new tokens to generate (default 512).
	// example: 256
	MaxTokens *int `json:"max_tokens,omitempty" example:"256"`
	// Sampling temperature (default 0.7).
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// example: llm-service
	Service string `json:"service" example:"llm-service"`
	// Whether the model handle is currently loaded.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// Configured artifact filename.
	// example: Meta-Llama-3-8B-Instruct.Q4_K_M.gguf
	ModelName string `json:"model_name" example:"Meta-Llama-3-8B-Instruct.Q4_K_M.gguf"`
}

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model load failed
	Error string `json:"error" example:"model load failed"`
}

// ModelsResponse wraps the list of cached artifacts returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Load state: idle, loading, failed, loaded.
	// example: loaded
	State string `json:"state" example:"loaded"`
	// example: Meta-Llama-3-8B-Instruct.Q4_K_M.gguf
	ModelName string `json:"model_name" example:"Meta-Llama-3-8B-Instruct.Q4_K_M.gguf"`
	// Local artifact path once provisioned.
	// example: /root/.cache/huggingface/Meta-Llama-3-8B-Instruct.Q4_K_M.gguf
	ModelPath string `json:"model_path,omitempty" example:"/root/.cache/huggingface/Meta-Llama-3-8B-Instruct.Q4_K_M.gguf"`
	// example: QuantFactory/Meta-Llama-3-8B-Instruct-GGUF
	RepoID string `json:"repo_id" example:"QuantFactory/Meta-Llama-3-8B-Instruct-GGUF"`
	// Engine backend in use.
	// example: llama
	Backend string `json:"backend" example:"llama"`
	// Last load error, if the state is failed.
	Error string `json:"error,omitempty"`
	// Successful loads since start (0 or 1).
	// example: 1
	LoadsTotal uint64 `json:"loads_total" example:"1"`
	// Failed load attempts since start.
	// example: 0
	LoadFailuresTotal uint64 `json:"load_failures_total" example:"0"`
	// Seconds the last successful load took.
	// example: 12.5
	LoadSeconds float64 `json:"load_seconds,omitempty" example:"12.5"`
	// Generations currently holding an engine slot.
	// example: 0
	Inflight int `json:"inflight" example:"0"`
	// Requests waiting for an engine slot.
	// example: 0
	Waiting int64 `json:"waiting" example:"0"`
	// Engine slots (max_inflight).
	// example: 1
	MaxInflight int `json:"max_inflight" example:"1"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
