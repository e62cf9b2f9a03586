package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"llmsvc/internal/httpapi"
	"llmsvc/internal/hub"
	"llmsvc/internal/llm"
	"llmsvc/internal/manager"
	"llmsvc/internal/provision"
	"llmsvc/pkg/types"
)

const (
	repoID    = "org/tiny-GGUF"
	modelFile = "tiny.Q4_K_M.gguf"
)

// fakeHub serves a single artifact; fail makes the next n requests return 500.
type fakeHub struct {
	hits atomic.Int32
	fail atomic.Int32
}

func (h *fakeHub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+repoID+"/resolve/main/"+modelFile {
			http.NotFound(w, r)
			return
		}
		h.hits.Add(1)
		if h.fail.Load() > 0 {
			h.fail.Add(-1)
			http.Error(w, "upstream down", http.StatusInternalServerError)
			return
		}
		// Give concurrent callers time to pile onto the same load.
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte("GGUF\x03\x00\x00\x00"))
	})
}

// fakeLlamaServer imitates llama-server's OpenAI-compatible API.
func fakeLlamaServer() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"` + modelFile + `","object":"model"}]}`))
	})
	mux.HandleFunc("/v1/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"text_completion","created":1700000000,"model":"` + modelFile + `",
			"choices":[{"index":0,"text":" world","finish_reason":"length"}],
			"usage":{"prompt_tokens":1,"completion_tokens":5,"total_tokens":6}}`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-9","object":"chat.completion","created":1700000001,"model":"` + modelFile + `",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":2,"total_tokens":14},"system_fingerprint":"b4567-e2e"}`))
	})
	return mux
}

type stack struct {
	api      *httptest.Server
	hub      *fakeHub
	mgr      *manager.Manager
	cacheDir string
	events   *manager.MemoryPublisher
}

func newStack(t *testing.T) *stack {
	t.Helper()
	h := &fakeHub{}
	hubSrv := httptest.NewServer(h.handler())
	t.Cleanup(hubSrv.Close)
	engSrv := httptest.NewServer(fakeLlamaServer())
	t.Cleanup(engSrv.Close)

	cacheDir := t.TempDir()
	events := manager.NewMemoryPublisher()
	log := zerolog.New(io.Discard)
	mgr := manager.New(manager.ManagerConfig{
		ServiceName: "llm-service",
		RepoID:      repoID,
		ModelFile:   modelFile,
		CacheDir:    cacheDir,
		Backend:     "server",
		Provisioner: provision.New(hub.NewClient(hub.WithBaseURL(hubSrv.URL))),
		Loader:      llm.NewServerLoader(llm.ServerOptions{URL: engSrv.URL, ReadyTimeout: 2 * time.Second}),
		Publisher:   events,
		Logger:      &log,
	})
	t.Cleanup(func() { _ = mgr.Close() })

	httpapi.SetCORSOptions(true, []string{"*"}, nil, nil)
	t.Cleanup(func() { httpapi.SetCORSOptions(false, nil, nil, nil) })
	api := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(api.Close)
	return &stack{api: api, hub: h, mgr: mgr, cacheDir: cacheDir, events: events}
}

func (s *stack) post(t *testing.T, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.api.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

func (s *stack) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, s.api.URL+path, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Errorf("do req: %v", err)
		return 0, nil
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func TestE2E_HealthBeforeAndAfterLoad(t *testing.T) {
	s := newStack(t)

	code, body := s.get(t, "/health")
	if code != http.StatusOK {
		t.Fatalf("/health status=%d", code)
	}
	var h types.HealthResponse
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatalf("json: %v", err)
	}
	if h.Status != "healthy" || h.ModelLoaded || h.ModelName != modelFile {
		t.Fatalf("unexpected health before load: %+v", h)
	}
	if code, _ := s.get(t, "/readyz"); code != http.StatusServiceUnavailable {
		t.Fatalf("/readyz before load status=%d", code)
	}

	if code, body := s.post(t, "/generate", `{"prompt":"Hello","max_tokens":5}`); code != http.StatusOK {
		t.Fatalf("/generate status=%d body=%s", code, body)
	}

	_, body = s.get(t, "/health")
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !h.ModelLoaded {
		t.Fatalf("expected model_loaded after generate: %+v", h)
	}
	if code, body := s.get(t, "/readyz"); code != http.StatusOK || string(body) != "ready" {
		t.Fatalf("/readyz after load status=%d body=%q", code, body)
	}
}

func TestE2E_ConcurrentFirstGenerateLoadsOnce(t *testing.T) {
	s := newStack(t)

	const n = 10
	var wg sync.WaitGroup
	codes := make([]int, n)
	bodies := make([][]byte, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i], bodies[i] = s.post(t, "/generate", `{"prompt":"Hello","max_tokens":5}`)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if codes[i] != http.StatusOK {
			t.Fatalf("request %d status=%d body=%s", i, codes[i], bodies[i])
		}
		var g types.GenerateResponse
		if err := json.Unmarshal(bodies[i], &g); err != nil {
			t.Fatalf("json: %v", err)
		}
		if g.Text != " world" || g.Usage.PromptTokens != 1 || g.Usage.CompletionTokens != 5 || g.Usage.TotalTokens != 6 {
			t.Fatalf("unexpected response %d: %+v", i, g)
		}
	}
	if got := s.hub.hits.Load(); got != 1 {
		t.Fatalf("expected exactly one hub download, got %d", got)
	}
	if got := s.events.Count("load_ready"); got != 1 {
		t.Fatalf("expected exactly one engine construction, got %d", got)
	}
	if _, err := os.Stat(filepath.Join(s.cacheDir, modelFile)); err != nil {
		t.Fatalf("artifact not cached: %v", err)
	}
}

func TestE2E_CachedArtifactSkipsHub(t *testing.T) {
	s := newStack(t)
	if err := os.WriteFile(filepath.Join(s.cacheDir, modelFile), []byte("GGUF"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if code, body := s.post(t, "/generate", `{"prompt":"x"}`); code != http.StatusOK {
		t.Fatalf("/generate status=%d body=%s", code, body)
	}
	if got := s.hub.hits.Load(); got != 0 {
		t.Fatalf("expected zero hub calls for a cached artifact, got %d", got)
	}
}

func TestE2E_ChatPassthrough(t *testing.T) {
	s := newStack(t)
	code, body := s.post(t, "/chat", `{"messages":[{"role":"system","content":"Be brief."},{"role":"user","content":"Hi"}]}`)
	if code != http.StatusOK {
		t.Fatalf("/chat status=%d body=%s", code, body)
	}
	var c llm.ChatCompletion
	if err := json.Unmarshal(body, &c); err != nil {
		t.Fatalf("json: %v", err)
	}
	if c.ID != "chatcmpl-9" || c.Object != "chat.completion" || c.Created != 1700000001 {
		t.Fatalf("envelope changed: %+v", c)
	}
	if len(c.Choices) != 1 || c.Choices[0].Message.Content != "Hello!" || c.Choices[0].FinishReason != "stop" {
		t.Fatalf("choices changed: %+v", c.Choices)
	}
	if c.Usage.TotalTokens != 14 {
		t.Fatalf("usage changed: %+v", c.Usage)
	}
	if !strings.Contains(string(body), `"system_fingerprint":"b4567-e2e"`) {
		t.Fatalf("engine fields dropped: %s", body)
	}
}

func TestE2E_ProvisioningFailureThenRecovery(t *testing.T) {
	s := newStack(t)
	s.hub.fail.Store(1)

	code, body := s.post(t, "/generate", `{"prompt":"x"}`)
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on hub failure, got %d body=%s", code, body)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(e.Error, "provision") {
		t.Fatalf("error=%q", e.Error)
	}

	_, body = s.get(t, "/status")
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if st.State != "failed" || st.Error == "" || st.LoadFailuresTotal != 1 {
		t.Fatalf("unexpected status after failure: %+v", st)
	}
	if code, body := s.get(t, "/readyz"); code != http.StatusServiceUnavailable || string(body) != "failed" {
		t.Fatalf("/readyz status=%d body=%q", code, body)
	}

	if code, body := s.post(t, "/generate", `{"prompt":"x"}`); code != http.StatusOK {
		t.Fatalf("retry status=%d body=%s", code, body)
	}
	_, body = s.get(t, "/status")
	var recovered types.StatusResponse
	if err := json.Unmarshal(body, &recovered); err != nil {
		t.Fatalf("json: %v", err)
	}
	if recovered.State != "loaded" || recovered.LoadsTotal != 1 || recovered.Error != "" {
		t.Fatalf("unexpected status after recovery: %+v", recovered)
	}
}

func TestE2E_ModelsListsCachedArtifact(t *testing.T) {
	s := newStack(t)
	if code, _ := s.post(t, "/generate", `{"prompt":"x"}`); code != http.StatusOK {
		t.Fatalf("/generate status=%d", code)
	}
	code, body := s.get(t, "/models")
	if code != http.StatusOK {
		t.Fatalf("/models status=%d", code)
	}
	var m types.ModelsResponse
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(m.Models) != 1 || m.Models[0].ID != modelFile || m.Models[0].Quant != "Q4_K_M" {
		t.Fatalf("unexpected models: %+v", m.Models)
	}
}

func TestE2E_MetricsExposeDomainCounters(t *testing.T) {
	s := newStack(t)
	if code, _ := s.post(t, "/generate", `{"prompt":"x"}`); code != http.StatusOK {
		t.Fatalf("/generate status=%d", code)
	}
	_, body := s.get(t, "/metrics")
	for _, want := range []string{
		"llmsvc_http_requests_total",
		"llmsvc_model_loads_total",
		"llmsvc_model_downloads_total",
		`llmsvc_generations_total{kind="generate",result="ok"}`,
	} {
		if !bytes.Contains(body, []byte(want)) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}
