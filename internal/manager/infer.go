package manager

import (
	"context"

	"llmsvc/internal/llm"
	"llmsvc/pkg/types"
)

// Generate runs a raw completion, loading the model first if needed.
// Omitted fields take DefaultGenerateMaxTokens, DefaultTemperature and
// DefaultStop. The prompt is never echoed.
func (m *Manager) Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	params := llm.CompletionParams{
		Prompt:      req.Prompt,
		MaxTokens:   intOr(req.MaxTokens, DefaultGenerateMaxTokens),
		Temperature: floatOr(req.Temperature, DefaultTemperature),
		Stop:        req.Stop,
		Echo:        false,
	}
	if params.Stop == nil {
		params.Stop = append([]string(nil), DefaultStop...)
	}

	var out *llm.Completion
	err := m.withEngine(ctx, "generate", func(eng llm.Engine) error {
		var err error
		out, err = eng.Complete(ctx, params)
		return err
	})
	if err != nil {
		return types.GenerateResponse{}, err
	}
	return types.GenerateResponse{
		Text: out.Text(),
		Usage: types.Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
	}, nil
}

// Chat runs a chat completion and returns the engine's response unchanged.
// Omitted fields take DefaultChatMaxTokens and DefaultTemperature.
func (m *Manager) Chat(ctx context.Context, req types.ChatRequest) (*llm.ChatCompletion, error) {
	msgs := make([]llm.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		msgs = append(msgs, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	params := llm.ChatParams{
		Messages:    msgs,
		MaxTokens:   intOr(req.MaxTokens, DefaultChatMaxTokens),
		Temperature: floatOr(req.Temperature, DefaultTemperature),
	}

	var out *llm.ChatCompletion
	err := m.withEngine(ctx, "chat", func(eng llm.Engine) error {
		var err error
		out, err = eng.ChatComplete(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// withEngine loads the model, takes an engine slot and runs fn.
func (m *Manager) withEngine(ctx context.Context, kind string, fn func(llm.Engine) error) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		generationsTotal.WithLabelValues(kind, result).Inc()
	}()
	if err := m.EnsureLoaded(ctx); err != nil {
		return err
	}
	release, err := m.beginGeneration(ctx)
	if err != nil {
		return err
	}
	defer release()
	eng, err := m.currentEngine()
	if err != nil {
		return err
	}
	return fn(eng)
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
