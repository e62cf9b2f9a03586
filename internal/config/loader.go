package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	ServiceName string `json:"service_name" yaml:"service_name" toml:"service_name"`

	// Artifact provisioning
	RepoID    string `json:"repo_id" yaml:"repo_id" toml:"repo_id"`
	ModelFile string `json:"model_file" yaml:"model_file" toml:"model_file"`
	Revision  string `json:"revision" yaml:"revision" toml:"revision"`
	CacheDir  string `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	HubURL    string `json:"hub_url" yaml:"hub_url" toml:"hub_url"`
	HubToken  string `json:"hub_token" yaml:"hub_token" toml:"hub_token"`

	// Engine
	Backend        string `json:"backend" yaml:"backend" toml:"backend"`
	LlamaServerBin string `json:"llama_server_bin" yaml:"llama_server_bin" toml:"llama_server_bin"`
	LlamaServerURL string `json:"llama_server_url" yaml:"llama_server_url" toml:"llama_server_url"`
	ContextSize    int    `json:"context_size" yaml:"context_size" toml:"context_size"`
	GPULayers      int    `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`
	Threads        int    `json:"threads" yaml:"threads" toml:"threads"`
	Verbose        bool   `json:"verbose" yaml:"verbose" toml:"verbose"`
	Preload        *bool  `json:"preload" yaml:"preload" toml:"preload"`
	MaxInflight    int    `json:"max_inflight" yaml:"max_inflight" toml:"max_inflight"`

	// HTTP
	RequestTimeoutSeconds int64    `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	MaxBodyBytes          int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled           *bool    `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins           []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile   string `json:"log_file" yaml:"log_file" toml:"log_file"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
