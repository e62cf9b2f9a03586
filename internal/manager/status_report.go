package manager

import (
	"llmsvc/internal/registry"
	"llmsvc/pkg/types"
)

// Health builds the /health payload. It never fails.
func (m *Manager) Health() types.HealthResponse {
	return types.HealthResponse{
		Status:      "healthy",
		Service:     m.cfg.ServiceName,
		ModelLoaded: m.Loaded(),
		ModelName:   m.cfg.ModelFile,
	}
}

// Ready reports whether generation requests can be served without loading.
func (m *Manager) Ready() bool { return m.Loaded() }

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	now := m.cfg.now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := types.StatusResponse{
		State:             string(m.state),
		ModelName:         m.cfg.ModelFile,
		ModelPath:         m.modelPath,
		RepoID:            m.cfg.RepoID,
		Backend:           m.cfg.Backend,
		LoadsTotal:        m.loads,
		LoadFailuresTotal: m.failures,
		LoadSeconds:       m.loadSeconds,
		Inflight:          int(m.inflight.Load()),
		Waiting:           m.waiting.Load(),
		MaxInflight:       m.cfg.MaxInflight,
		UptimeSeconds:     int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:    now.Unix(),
	}
	if m.state == StateFailed && m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	return resp
}

// ListModels returns the GGUF artifacts present in the cache directory.
func (m *Manager) ListModels() ([]types.Model, error) {
	return registry.LoadDir(m.cfg.CacheDir)
}
