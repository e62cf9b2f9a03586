package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ServerOptions configures the llama-server backend.
type ServerOptions struct {
	// Bin is the llama-server executable, resolved through PATH.
	Bin string
	// URL attaches to an already running server instead of spawning one.
	URL string
	// Host the spawned server binds to. Defaults to 127.0.0.1.
	Host string
	// ReadyTimeout bounds the wait for /v1/models to answer. Defaults to 120s.
	ReadyTimeout time.Duration
	ExtraArgs    []string
	// HTTPClient is used for readiness probes and API calls.
	HTTPClient *http.Client
	// OnEvent receives process lifecycle events (spawn_start, spawn_ready,
	// spawn_exit, spawn_timeout, spawn_stop). Optional.
	OnEvent func(name string, fields map[string]any)
}

const defaultReadyTimeout = 120 * time.Second

// NewServerLoader returns a Loader backed by llama.cpp's llama-server.
func NewServerLoader(so ServerOptions) Loader {
	if so.Bin == "" {
		so.Bin = "llama-server"
	}
	if strings.TrimSpace(so.Host) == "" {
		so.Host = "127.0.0.1"
	}
	if so.ReadyTimeout <= 0 {
		so.ReadyTimeout = defaultReadyTimeout
	}
	if so.HTTPClient == nil {
		// Timeout=0: every call carries a context deadline.
		so.HTTPClient = &http.Client{Timeout: 0}
	}
	if so.OnEvent == nil {
		so.OnEvent = func(string, map[string]any) {}
	}
	return &serverLoader{opts: so}
}

type serverLoader struct {
	opts ServerOptions
}

func (l *serverLoader) Load(ctx context.Context, o Options) (Engine, error) {
	if err := validateOptions(o); err != nil {
		return nil, err
	}
	var (
		base string
		proc *process
	)
	if l.opts.URL != "" {
		base = strings.TrimRight(l.opts.URL, "/")
		if err := waitReady(ctx, l.opts.HTTPClient, base, l.opts.ReadyTimeout, nil); err != nil {
			return nil, fmt.Errorf("attach llama-server %s: %w", base, err)
		}
	} else {
		bin, err := exec.LookPath(l.opts.Bin)
		if err != nil {
			return nil, ErrDependencyUnavailable(fmt.Sprintf("llama-server binary %q not found: %v", l.opts.Bin, err))
		}
		proc, err = spawn(ctx, bin, o, l.opts)
		if err != nil {
			return nil, err
		}
		base = proc.baseURL
	}
	return newServerEngine(base, filepath.Base(o.ModelPath), l.opts.HTTPClient, proc), nil
}

// serverEngine speaks the OpenAI-compatible API of llama-server.
type serverEngine struct {
	client *openai.Client
	model  string
	proc   *process
}

func newServerEngine(base, model string, hc *http.Client, proc *process) *serverEngine {
	cfg := openai.DefaultConfig("no-key")
	cfg.BaseURL = base + "/v1"
	cfg.HTTPClient = captureDoer{hc: hc}
	return &serverEngine{client: openai.NewClientWithConfig(cfg), model: model, proc: proc}
}

type rawBodyKey struct{}

// captureDoer copies a 2xx response body into the *[]byte stored under
// rawBodyKey in the request context, if any.
type captureDoer struct {
	hc *http.Client
}

func (d captureDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.hc.Do(req)
	if err != nil {
		return resp, err
	}
	dst, ok := req.Context().Value(rawBodyKey{}).(*[]byte)
	if !ok || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}
	b, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	*dst = b
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return resp, nil
}

// temperature maps 0 to the smallest positive float32: go-openai omits a zero
// temperature and the server would substitute its own default.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func (e *serverEngine) Complete(ctx context.Context, p CompletionParams) (*Completion, error) {
	resp, err := e.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       e.model,
		Prompt:      p.Prompt,
		MaxTokens:   p.MaxTokens,
		Temperature: temperature(p.Temperature),
		Stop:        p.Stop,
		Echo:        p.Echo,
	})
	if err != nil {
		return nil, wrapServerErr(ctx, "completion", err)
	}
	out := &Completion{
		ID:      resp.ID,
		Object:  ObjectCompletion,
		Created: resp.Created,
		Model:   resp.Model,
	}
	if resp.Usage != nil {
		out.Usage = fromOpenAIUsage(*resp.Usage)
	}
	for _, c := range resp.Choices {
		out.Choices = append(out.Choices, CompletionChoice{
			Index:        c.Index,
			Text:         trimStop(c.Text, p.Stop),
			FinishReason: string(c.FinishReason),
		})
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("llama-server returned no choices")
	}
	return out, nil
}

func (e *serverEngine) ChatComplete(ctx context.Context, p ChatParams) (*ChatCompletion, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(p.Messages))
	for _, m := range p.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	var raw []byte
	resp, err := e.client.CreateChatCompletion(context.WithValue(ctx, rawBodyKey{}, &raw), openai.ChatCompletionRequest{
		Model:       e.model,
		Messages:    msgs,
		MaxTokens:   p.MaxTokens,
		Temperature: temperature(p.Temperature),
	})
	if err != nil {
		return nil, wrapServerErr(ctx, "chat completion", err)
	}
	out := &ChatCompletion{
		ID:      resp.ID,
		Object:  ObjectChatCompletion,
		Created: resp.Created,
		Model:   resp.Model,
		Usage:   fromOpenAIUsage(resp.Usage),
	}
	if json.Valid(raw) {
		out.raw = raw
	}
	for _, c := range resp.Choices {
		out.Choices = append(out.Choices, ChatChoice{
			Index:        c.Index,
			Message:      Message{Role: c.Message.Role, Content: c.Message.Content},
			FinishReason: string(c.FinishReason),
		})
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("llama-server returned no choices")
	}
	return out, nil
}

func (e *serverEngine) Close() error {
	if e.proc != nil {
		return e.proc.stop()
	}
	return nil
}

func fromOpenAIUsage(u openai.Usage) Usage {
	return Usage{PromptTokens: u.PromptTokens, CompletionTokens: u.CompletionTokens, TotalTokens: u.TotalTokens}
}

func wrapServerErr(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("llama-server %s: %w", op, err)
}
