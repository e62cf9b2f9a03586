package config

import "testing"

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Addr != DefaultAddr || cfg.ServiceName != DefaultServiceName {
		t.Fatalf("unexpected addr/service: %+v", cfg)
	}
	if cfg.RepoID != DefaultRepoID || cfg.ModelFile != DefaultModelFile || cfg.Revision != "main" {
		t.Fatalf("unexpected artifact defaults: %+v", cfg)
	}
	if cfg.ContextSize != 4096 || cfg.GPULayers != 0 || cfg.Verbose {
		t.Fatalf("unexpected engine defaults: %+v", cfg)
	}
	if !cfg.PreloadEnabled() || !cfg.CORSOn() {
		t.Fatalf("preload and cors must default on")
	}
	if cfg.RequestTimeout() != DefaultRequestTimeout {
		t.Fatalf("timeout=%v", cfg.RequestTimeout())
	}
	if cfg.MaxInflight != 1 || cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestWithDefaults_KeepsExplicitValues(t *testing.T) {
	off := false
	cfg := Config{Addr: ":1", ContextSize: 2048, Preload: &off, RequestTimeoutSeconds: -1}.WithDefaults()
	if cfg.Addr != ":1" || cfg.ContextSize != 2048 {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
	if cfg.PreloadEnabled() {
		t.Fatalf("explicit preload=false lost")
	}
	if cfg.RequestTimeout() != 0 {
		t.Fatalf("negative timeout should disable, got %v", cfg.RequestTimeout())
	}
}

func TestValidate(t *testing.T) {
	base := Config{}.WithDefaults()
	bad := base
	bad.Backend = "cuda"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected backend error")
	}
	bad = base
	bad.ModelFile = "../etc/passwd"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected model_file error")
	}
	bad = base
	bad.RepoID = "noslash"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected repo_id error")
	}
	bad = base
	bad.LogFormat = "xml"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected log_format error")
	}
}
