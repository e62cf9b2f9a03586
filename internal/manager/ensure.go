package manager

import (
	"context"
	"errors"
	"time"

	"llmsvc/internal/llm"
	"llmsvc/internal/provision"
)

const loadKey = "model"

// EnsureLoaded makes the engine handle available, loading it on first use.
// Concurrent callers share one in-flight load and its result. The load runs on
// the manager's base context: a caller whose ctx ends stops waiting with
// ctx.Err() while the load continues for the others. A failed load leaves the
// state failed; the next call retries.
func (m *Manager) EnsureLoaded(ctx context.Context) error {
	m.mu.RLock()
	state, closed := m.state, m.closed
	m.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if state == StateLoaded {
		return nil
	}
	ch := m.sf.DoChan(loadKey, func() (any, error) {
		return nil, m.load()
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Preload attempts the load at startup. Failures are logged and swallowed; the
// state records them and the next request retries.
func (m *Manager) Preload(ctx context.Context) {
	if err := m.EnsureLoaded(ctx); err != nil {
		m.log.Warn().Err(err).Str("model", m.cfg.ModelFile).Msg("preload failed; will retry on first request")
	}
}

func (m *Manager) load() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.state == StateLoaded {
		m.mu.Unlock()
		return nil
	}
	m.state = StateLoading
	m.lastErr = nil
	m.mu.Unlock()

	ctx := m.baseCtx
	start := m.cfg.now()
	m.log.Info().Str("repo_id", m.cfg.RepoID).Str("model", m.cfg.ModelFile).Msg("load start")
	m.cfg.Publisher.Publish(Event{Name: "load_start", ModelID: m.cfg.ModelFile})

	path, err := m.provision(ctx)
	if err != nil {
		return m.fail(err, start)
	}
	m.mu.Lock()
	m.modelPath = path
	m.mu.Unlock()

	if m.cfg.Loader == nil {
		return m.fail(&ModelLoadError{Path: path, Err: errors.New("no engine loader configured")}, start)
	}
	eng, err := m.cfg.Loader.Load(ctx, llm.Options{
		ModelPath:   path,
		ContextSize: m.cfg.ContextSize,
		GPULayers:   m.cfg.GPULayers,
		Threads:     m.cfg.Threads,
		Verbose:     m.cfg.Verbose,
	})
	if err != nil {
		return m.fail(&ModelLoadError{Path: path, Err: err}, start)
	}

	dur := m.cfg.now().Sub(start)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = eng.Close()
		return ErrClosed
	}
	m.engine = eng
	m.state = StateLoaded
	m.loads++
	m.loadSeconds = dur.Seconds()
	m.mu.Unlock()

	modelLoadsTotal.WithLabelValues("ok").Inc()
	modelLoadDuration.Observe(dur.Seconds())
	m.log.Info().Str("path", path).Dur("took", dur).Msg("load ready")
	m.cfg.Publisher.Publish(Event{Name: "load_ready", ModelID: m.cfg.ModelFile, Fields: map[string]any{"path": path, "seconds": dur.Seconds()}})
	return nil
}

// provision resolves the artifact, counting and logging actual downloads.
func (m *Manager) provision(ctx context.Context) (string, error) {
	if m.cfg.Provisioner == nil {
		return "", &provision.ProvisioningError{RepoID: m.cfg.RepoID, Filename: m.cfg.ModelFile, Err: errors.New("no provisioner configured")}
	}
	cached := provision.Cached(m.cfg.CacheDir, m.cfg.ModelFile)
	if cached {
		m.log.Debug().Str("model", m.cfg.ModelFile).Msg("artifact cached")
	} else {
		m.log.Info().Str("repo_id", m.cfg.RepoID).Str("model", m.cfg.ModelFile).Str("cache_dir", m.cfg.CacheDir).Msg("download start")
		m.cfg.Publisher.Publish(Event{Name: "download_start", ModelID: m.cfg.ModelFile, Fields: map[string]any{"repo_id": m.cfg.RepoID}})
	}
	start := m.cfg.now()
	path, err := m.cfg.Provisioner.EnsureArtifact(ctx, m.cfg.RepoID, m.cfg.ModelFile, m.cfg.CacheDir)
	if cached {
		return path, err
	}
	if err != nil {
		modelDownloadsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	modelDownloadsTotal.WithLabelValues("ok").Inc()
	m.log.Info().Str("path", path).Dur("took", m.cfg.now().Sub(start)).Msg("download complete")
	m.cfg.Publisher.Publish(Event{Name: "download_done", ModelID: m.cfg.ModelFile, Fields: map[string]any{"path": path}})
	return path, nil
}

func (m *Manager) fail(err error, start time.Time) error {
	m.mu.Lock()
	if !m.closed {
		m.state = StateFailed
	}
	m.lastErr = err
	m.failures++
	m.mu.Unlock()

	modelLoadsTotal.WithLabelValues("error").Inc()
	m.log.Error().Err(err).Dur("took", m.cfg.now().Sub(start)).Msg("load failed")
	m.cfg.Publisher.Publish(Event{Name: "load_failed", ModelID: m.cfg.ModelFile, Fields: map[string]any{"error": err.Error()}})
	return err
}
