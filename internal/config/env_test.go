package config

import "testing"

func mapLookup(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Config{HubToken: "from-file"}
	err := cfg.ApplyEnv(mapLookup(map[string]string{
		"HF_TOKEN":                "hf-token",
		"LLMSVC_ADDR":             ":9000",
		"LLMSVC_CONTEXT_SIZE":     "1024",
		"LLMSVC_PRELOAD":          "false",
		"LLMSVC_CORS_ORIGINS":     "http://a, http://b",
		"LLMSVC_MAX_BODY_BYTES":   "2048",
		"LLMSVC_BACKEND":          "server",
		"LLMSVC_LLAMA_SERVER_URL": "http://127.0.0.1:8080",
	}))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.HubToken != "hf-token" || cfg.Addr != ":9000" || cfg.ContextSize != 1024 || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.PreloadEnabled() {
		t.Fatalf("expected preload disabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("origins=%v", cfg.CORSOrigins)
	}
	if cfg.Backend != BackendServer || cfg.LlamaServerURL == "" {
		t.Fatalf("backend not applied: %+v", cfg)
	}
}

func TestApplyEnv_PrefixedTokenWins(t *testing.T) {
	var cfg Config
	if err := cfg.ApplyEnv(mapLookup(map[string]string{"HF_TOKEN": "a", "LLMSVC_HUB_TOKEN": "b"})); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.HubToken != "b" {
		t.Fatalf("token=%q", cfg.HubToken)
	}
}

func TestApplyEnv_BadNumber(t *testing.T) {
	var cfg Config
	if err := cfg.ApplyEnv(mapLookup(map[string]string{"LLMSVC_THREADS": "many"})); err == nil {
		t.Fatalf("expected parse error")
	}
	if err := cfg.ApplyEnv(mapLookup(map[string]string{"LLMSVC_VERBOSE": "perhaps"})); err == nil {
		t.Fatalf("expected bool parse error")
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
		{" , ", nil},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}
