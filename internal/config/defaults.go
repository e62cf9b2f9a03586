package config

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultAddr           = ":8083"
	DefaultServiceName    = "llm-service"
	DefaultRepoID         = "QuantFactory/Meta-Llama-3-8B-Instruct-GGUF"
	DefaultModelFile      = "Meta-Llama-3-8B-Instruct.Q4_K_M.gguf"
	DefaultRevision       = "main"
	DefaultCacheDir       = "~/.cache/huggingface"
	DefaultHubURL         = "https://huggingface.co"
	DefaultLlamaServerBin = "llama-server"
	DefaultContextSize    = 4096
	DefaultMaxInflight    = 1
	DefaultRequestTimeout = 300 * time.Second
	DefaultMaxBodyBytes   = 1 << 20
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

// Engine backends.
const (
	BackendLlama  = "llama"
	BackendServer = "server"
)

// Default returns a fully defaulted Config.
func Default() Config { return Config{}.WithDefaults() }

// WithDefaults returns a copy of c with every unspecified field filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.RepoID == "" {
		c.RepoID = DefaultRepoID
	}
	if c.ModelFile == "" {
		c.ModelFile = DefaultModelFile
	}
	if c.Revision == "" {
		c.Revision = DefaultRevision
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.HubURL == "" {
		c.HubURL = DefaultHubURL
	}
	if c.Backend == "" {
		c.Backend = BackendLlama
	}
	if c.LlamaServerBin == "" {
		c.LlamaServerBin = DefaultLlamaServerBin
	}
	if c.ContextSize <= 0 {
		c.ContextSize = DefaultContextSize
	}
	if c.GPULayers < 0 {
		c.GPULayers = 0
	}
	if c.Threads < 0 {
		c.Threads = 0
	}
	if c.Preload == nil {
		c.Preload = boolPtr(true)
	}
	if c.MaxInflight <= 0 {
		c.MaxInflight = DefaultMaxInflight
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = int64(DefaultRequestTimeout / time.Second)
	}
	if c.RequestTimeoutSeconds < 0 {
		c.RequestTimeoutSeconds = 0
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.CORSEnabled == nil {
		c.CORSEnabled = boolPtr(true)
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	return c
}

// Validate reports configuration values that cannot be served.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendLlama, BackendServer:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendLlama, BackendServer)
	}
	if strings.ContainsAny(c.ModelFile, `/\`) {
		return fmt.Errorf("model_file must be a bare filename, got %q", c.ModelFile)
	}
	if strings.Count(c.RepoID, "/") != 1 {
		return fmt.Errorf("repo_id must look like owner/name, got %q", c.RepoID)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// PreloadEnabled reports whether the model should be loaded at startup.
func (c Config) PreloadEnabled() bool { return c.Preload == nil || *c.Preload }

// CORSOn reports whether the CORS middleware is installed.
func (c Config) CORSOn() bool { return c.CORSEnabled == nil || *c.CORSEnabled }

// RequestTimeout returns the per-request generation timeout (0 disables).
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func boolPtr(b bool) *bool { return &b }
