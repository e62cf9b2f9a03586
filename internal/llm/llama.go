//go:build llama

package llm

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// LlamaBuilt indicates this binary was compiled with in-process llama support.
const LlamaBuilt = true

// NewLlamaLoader returns a Loader for the in-process go-llama.cpp backend.
func NewLlamaLoader() Loader { return LoaderFunc(loadLlama) }

type llamaEngine struct {
	mu      sync.Mutex
	model   *llama.LLama
	name    string
	threads int
}

func loadLlama(ctx context.Context, o Options) (Engine, error) {
	if err := validateOptions(o); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// go-llama.cpp has no verbosity switch; llama.cpp logs to stderr regardless.
	mo := []llama.ModelOption{
		llama.SetContext(o.ContextSize),
		llama.SetGPULayers(o.GPULayers),
	}
	m, err := llama.New(o.ModelPath, mo...)
	if err != nil {
		return nil, err
	}
	threads := o.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &llamaEngine{model: m, name: filepath.Base(o.ModelPath), threads: threads}, nil
}

func (e *llamaEngine) predict(ctx context.Context, prompt string, maxTokens int, temp float64, stop []string) (string, Usage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return "", Usage{}, ErrClosed
	}
	po := []llama.PredictOption{
		llama.SetTokens(max(1, maxTokens)),
		llama.SetThreads(e.threads),
		llama.SetTemperature(float32(temp)),
		llama.SetTokenCallback(func(string) bool {
			return ctx.Err() == nil
		}),
	}
	if len(stop) > 0 {
		po = append(po, llama.SetStopWords(stop...))
	}
	text, err := e.model.Predict(prompt, po...)
	if ctx.Err() != nil {
		return "", Usage{}, ctx.Err()
	}
	if err != nil {
		return "", Usage{}, err
	}
	text = trimStop(text, stop)

	var u Usage
	if n, _, terr := e.model.TokenizeString(prompt); terr == nil {
		u.PromptTokens = int(n)
	}
	if n, _, terr := e.model.TokenizeString(text); terr == nil {
		u.CompletionTokens = int(n)
	}
	u.TotalTokens = u.PromptTokens + u.CompletionTokens
	return text, u, nil
}

func (e *llamaEngine) Complete(ctx context.Context, p CompletionParams) (*Completion, error) {
	text, u, err := e.predict(ctx, p.Prompt, p.MaxTokens, p.Temperature, p.Stop)
	if err != nil {
		return nil, err
	}
	if p.Echo {
		text = p.Prompt + text
	}
	return &Completion{
		ID:      newID("cmpl"),
		Object:  ObjectCompletion,
		Created: now(),
		Model:   e.name,
		Choices: []CompletionChoice{{Index: 0, Text: text, FinishReason: finishReason(u.CompletionTokens, p.MaxTokens)}},
		Usage:   u,
	}, nil
}

func (e *llamaEngine) ChatComplete(ctx context.Context, p ChatParams) (*ChatCompletion, error) {
	text, u, err := e.predict(ctx, FormatLlama3(p.Messages), p.MaxTokens, p.Temperature, []string{EOT})
	if err != nil {
		return nil, err
	}
	return &ChatCompletion{
		ID:      newID("chatcmpl"),
		Object:  ObjectChatCompletion,
		Created: now(),
		Model:   e.name,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      Message{Role: "assistant", Content: text},
			FinishReason: finishReason(u.CompletionTokens, p.MaxTokens),
		}},
		Usage: u,
	}, nil
}

func (e *llamaEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil
	}
	e.model.Free()
	e.model = nil
	return nil
}
