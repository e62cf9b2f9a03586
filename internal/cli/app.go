package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"llmsvc/internal/config"
	"llmsvc/internal/hub"
	"llmsvc/internal/llm"
	"llmsvc/internal/logutil"
	"llmsvc/internal/manager"
	"llmsvc/internal/provision"
)

func newLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	return logutil.New(logutil.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Output: out,
	})
}

func newProvisioner(cfg config.Config, log zerolog.Logger) *provision.Provisioner {
	client := hub.NewClient(
		hub.WithBaseURL(cfg.HubURL),
		hub.WithToken(cfg.HubToken),
		hub.WithRevision(cfg.Revision),
		hub.WithProgress(func(written, total int64) {
			ev := log.Info().Str("file", cfg.ModelFile).Int64("written", written)
			if total > 0 {
				ev = ev.Int64("total", total).Float64("pct", float64(written)*100/float64(total))
			}
			ev.Msg("download progress")
		}),
	)
	return provision.New(client)
}

func newLoader(cfg config.Config, publish func(manager.Event)) llm.Loader {
	if cfg.Backend != config.BackendServer {
		return llm.NewLlamaLoader()
	}
	return llm.NewServerLoader(llm.ServerOptions{
		Bin: cfg.LlamaServerBin,
		URL: cfg.LlamaServerURL,
		OnEvent: func(name string, fields map[string]any) {
			publish(manager.Event{Name: name, ModelID: cfg.ModelFile, Fields: fields})
		},
	})
}

// newManager wires provisioning, the engine loader and event logging.
func newManager(ctx context.Context, cfg config.Config, log zerolog.Logger) *manager.Manager {
	var mgr *manager.Manager
	loader := newLoader(cfg, func(e manager.Event) { mgr.Publish(e) })
	mgr = manager.New(manager.ManagerConfig{
		ServiceName: cfg.ServiceName,
		RepoID:      cfg.RepoID,
		ModelFile:   cfg.ModelFile,
		CacheDir:    cfg.CacheDir,
		Backend:     cfg.Backend,
		ContextSize: cfg.ContextSize,
		GPULayers:   cfg.GPULayers,
		Threads:     cfg.Threads,
		Verbose:     cfg.Verbose,
		MaxInflight: cfg.MaxInflight,
		Provisioner: newProvisioner(cfg, log),
		Loader:      loader,
		Publisher:   manager.NewLogPublisher(log),
		Logger:      &log,
		BaseContext: ctx,
	})
	return mgr
}
