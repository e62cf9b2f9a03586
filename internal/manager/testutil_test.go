package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"llmsvc/internal/llm"
	"llmsvc/internal/provision"
)

// createModelFile creates a small placeholder artifact and returns its path.
func createModelFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("GGUF"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

// fakeEngine records parameters and tracks concurrent calls.
type fakeEngine struct {
	mu         sync.Mutex
	lastGen    llm.CompletionParams
	lastChat   llm.ChatParams
	genErr     error
	delay      time.Duration
	active     int32
	maxActive  int32
	closeCalls int32
}

func (e *fakeEngine) enter(ctx context.Context) error {
	n := atomic.AddInt32(&e.active, 1)
	for {
		old := atomic.LoadInt32(&e.maxActive)
		if n <= old || atomic.CompareAndSwapInt32(&e.maxActive, old, n) {
			break
		}
	}
	defer atomic.AddInt32(&e.active, -1)
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return e.genErr
}

func (e *fakeEngine) Complete(ctx context.Context, p llm.CompletionParams) (*llm.Completion, error) {
	e.mu.Lock()
	e.lastGen = p
	e.mu.Unlock()
	if err := e.enter(ctx); err != nil {
		return nil, err
	}
	return &llm.Completion{
		Choices: []llm.CompletionChoice{{Text: "Hi!"}},
		Usage:   llm.Usage{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5},
	}, nil
}

func (e *fakeEngine) ChatComplete(ctx context.Context, p llm.ChatParams) (*llm.ChatCompletion, error) {
	e.mu.Lock()
	e.lastChat = p
	e.mu.Unlock()
	if err := e.enter(ctx); err != nil {
		return nil, err
	}
	return &llm.ChatCompletion{
		ID: "chatcmpl-test", Object: llm.ObjectChatCompletion, Created: 1, Model: "m.gguf",
		Choices: []llm.ChatChoice{{Index: 0, Message: llm.Message{Role: "assistant", Content: "Hello"}, FinishReason: "stop"}},
		Usage:   llm.Usage{PromptTokens: 4, CompletionTokens: 1, TotalTokens: 5},
	}, nil
}

func (e *fakeEngine) Close() error {
	atomic.AddInt32(&e.closeCalls, 1)
	return nil
}

// fakeLoader counts Load calls. When gate is non-nil Load blocks until it is closed.
type fakeLoader struct {
	calls    int32
	err      error
	gate     chan struct{}
	eng      *fakeEngine
	lastOpts llm.Options
	mu       sync.Mutex
}

func (l *fakeLoader) Load(ctx context.Context, o llm.Options) (llm.Engine, error) {
	atomic.AddInt32(&l.calls, 1)
	l.mu.Lock()
	l.lastOpts = o
	err := l.err
	l.mu.Unlock()
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return l.eng, nil
}

func (l *fakeLoader) setErr(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

// fakeDownloader writes the file after an optional delay and counts calls.
type fakeDownloader struct {
	calls int32
	delay time.Duration
	mu    sync.Mutex
	err   error
	repo  string
	file  string
}

func (d *fakeDownloader) Download(ctx context.Context, repoID, filename, destDir string) (string, error) {
	atomic.AddInt32(&d.calls, 1)
	d.mu.Lock()
	d.repo, d.file = repoID, filename
	err := d.err
	d.mu.Unlock()
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	p := filepath.Join(destDir, filename)
	return p, os.WriteFile(p, []byte("GGUF"), 0o644)
}

func (d *fakeDownloader) setErr(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

var errBoom = errors.New("boom")

type fixture struct {
	m   *Manager
	eng *fakeEngine
	ld  *fakeLoader
	dl  *fakeDownloader
	pub *MemoryPublisher
	dir string
}

func newFixture(t *testing.T, mut func(*ManagerConfig)) *fixture {
	t.Helper()
	f := &fixture{
		eng: &fakeEngine{},
		dl:  &fakeDownloader{},
		pub: NewMemoryPublisher(),
		dir: t.TempDir(),
	}
	f.ld = &fakeLoader{eng: f.eng}
	cfg := ManagerConfig{
		RepoID:      "org/repo",
		ModelFile:   "m.gguf",
		CacheDir:    f.dir,
		Backend:     "llama",
		Provisioner: provision.New(f.dl),
		Loader:      f.ld,
		Publisher:   f.pub,
	}
	if mut != nil {
		mut(&cfg)
	}
	f.m = New(cfg)
	t.Cleanup(func() { _ = f.m.Close() })
	return f
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

func testCtxWithTimeout(t *testing.T, d time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), d)
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
