package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override, e.g. LLMSVC_ADDR.
const EnvPrefix = "LLMSVC_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment variables onto c. HF_TOKEN and HF_ENDPOINT
// are honored for compatibility with the Hugging Face tooling; the prefixed
// variants win when both are set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("HF_TOKEN", &c.HubToken)
	str("HF_ENDPOINT", &c.HubURL)

	str(EnvPrefix+"ADDR", &c.Addr)
	str(EnvPrefix+"SERVICE_NAME", &c.ServiceName)
	str(EnvPrefix+"REPO_ID", &c.RepoID)
	str(EnvPrefix+"MODEL_FILE", &c.ModelFile)
	str(EnvPrefix+"REVISION", &c.Revision)
	str(EnvPrefix+"CACHE_DIR", &c.CacheDir)
	str(EnvPrefix+"HUB_URL", &c.HubURL)
	str(EnvPrefix+"HUB_TOKEN", &c.HubToken)
	str(EnvPrefix+"BACKEND", &c.Backend)
	str(EnvPrefix+"LLAMA_SERVER_BIN", &c.LlamaServerBin)
	str(EnvPrefix+"LLAMA_SERVER_URL", &c.LlamaServerURL)
	str(EnvPrefix+"LOG_LEVEL", &c.LogLevel)
	str(EnvPrefix+"LOG_FORMAT", &c.LogFormat)
	str(EnvPrefix+"LOG_FILE", &c.LogFile)

	ints := []struct {
		key string
		dst *int
	}{
		{EnvPrefix + "CONTEXT_SIZE", &c.ContextSize},
		{EnvPrefix + "GPU_LAYERS", &c.GPULayers},
		{EnvPrefix + "THREADS", &c.Threads},
		{EnvPrefix + "MAX_INFLIGHT", &c.MaxInflight},
	}
	for _, it := range ints {
		if v, ok := lookup(it.key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", it.key, err)
			}
			*it.dst = n
		}
	}
	int64s := []struct {
		key string
		dst *int64
	}{
		{EnvPrefix + "REQUEST_TIMEOUT_SECONDS", &c.RequestTimeoutSeconds},
		{EnvPrefix + "MAX_BODY_BYTES", &c.MaxBodyBytes},
	}
	for _, it := range int64s {
		if v, ok := lookup(it.key); ok && v != "" {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", it.key, err)
			}
			*it.dst = n
		}
	}

	bools := []struct {
		key string
		set func(bool)
	}{
		{EnvPrefix + "VERBOSE", func(b bool) { c.Verbose = b }},
		{EnvPrefix + "PRELOAD", func(b bool) { c.Preload = boolPtr(b) }},
		{EnvPrefix + "CORS_ENABLED", func(b bool) { c.CORSEnabled = boolPtr(b) }},
	}
	for _, it := range bools {
		if v, ok := lookup(it.key); ok && v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", it.key, err)
			}
			it.set(b)
		}
	}

	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = SplitCSV(v)
	}
	return nil
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
