package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"llmsvc/internal/config"
)

// rootOptions holds persistent flag values and the environment source.
type rootOptions struct {
	configPath string
	addr       string
	logLevel   string
	cacheDir   string
	backend    string

	lookup config.LookupFunc
}

// Execute runs the command tree against the process environment.
func Execute() int {
	if err := NewRootCmd(os.LookupEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "llmsvc:", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree. lookup supplies environment overrides;
// nil means os.LookupEnv.
func NewRootCmd(lookup config.LookupFunc) *cobra.Command {
	return newRootCmd(&rootOptions{lookup: lookup})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "llmsvc",
		Short:         "HTTP front-end for a single local GGUF language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&opts.addr, "addr", "", "HTTP listen address (default "+config.DefaultAddr+")")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error|off")
	pf.StringVar(&opts.cacheDir, "cache-dir", "", "Artifact cache directory (default "+config.DefaultCacheDir+")")
	pf.StringVar(&opts.backend, "backend", "", "Engine backend: llama|server")

	root.AddCommand(newServeCmd(opts), newPullCmd(opts), newModelsCmd(opts))
	return root
}

// loadConfig layers file, environment and flags, then fills defaults.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		c, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if err := cfg.ApplyEnv(opts.lookup); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.addr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir = opts.cacheDir
	}
	if flags.Changed("backend") {
		cfg.Backend = opts.backend
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
