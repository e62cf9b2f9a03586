// Package llm wraps the inference engines the service can run on: the
// in-process go-llama.cpp binding and a llama.cpp llama-server child process
// reached over its OpenAI-compatible API.
//
// Build tags:
//
//   - llama: compiles the in-process backend (cgo, links libllama). Without the
//     tag the backend returns ErrDependencyUnavailable at load time.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Engine is a loaded model ready to serve completions. Implementations are not
// required to be safe for concurrent use; callers serialize access.
type Engine interface {
	Complete(ctx context.Context, p CompletionParams) (*Completion, error)
	ChatComplete(ctx context.Context, p ChatParams) (*ChatCompletion, error)
	Close() error
}

// Loader constructs an Engine from a model artifact on disk.
type Loader interface {
	Load(ctx context.Context, opts Options) (Engine, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, opts Options) (Engine, error)

func (f LoaderFunc) Load(ctx context.Context, opts Options) (Engine, error) { return f(ctx, opts) }

// Options are fixed at load time.
type Options struct {
	ModelPath   string
	ContextSize int
	GPULayers   int
	Threads     int // 0 = runtime.NumCPU()
	Verbose     bool
}

// CompletionParams are per-request sampling inputs for raw completion.
type CompletionParams struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	Stop        []string
	Echo        bool
}

// ChatParams are per-request inputs for chat completion.
type ChatParams struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage carries token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion mirrors the OpenAI text_completion object.
type Completion struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   Usage              `json:"usage"`
}

type CompletionChoice struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason"`
}

// Text returns the first choice's text, or "" when there is none.
func (c *Completion) Text() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Text
}

// ChatCompletion mirrors the OpenAI chat.completion object and is relayed to
// clients unchanged.
type ChatCompletion struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`

	// raw is the engine's response body, when the backend exposes one.
	raw []byte
}

// MarshalJSON emits the engine's original body when it was captured, so
// fields outside this struct reach the client too.
func (c ChatCompletion) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type plain ChatCompletion
	return json.Marshal(plain(c))
}

type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

const (
	ObjectCompletion     = "text_completion"
	ObjectChatCompletion = "chat.completion"

	FinishStop   = "stop"
	FinishLength = "length"
)

func validateOptions(o Options) error {
	if o.ModelPath == "" {
		return fmt.Errorf("model path is empty")
	}
	if o.ContextSize < 0 || o.GPULayers < 0 || o.Threads < 0 {
		return fmt.Errorf("negative engine option: %+v", o)
	}
	return nil
}
