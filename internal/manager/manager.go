package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"llmsvc/internal/llm"
)

// Manager holds at most one engine handle, created lazily and kept until Close.
type Manager struct {
	cfg ManagerConfig
	log zerolog.Logger

	mu          sync.RWMutex
	state       LoadState
	engine      llm.Engine
	modelPath   string
	lastErr     error
	loads       uint64
	failures    uint64
	loadSeconds float64
	closed      bool

	sf       singleflight.Group
	slots    *semaphore.Weighted // engine slots, weight = MaxInflight
	inflight atomic.Int64
	waiting  atomic.Int64

	baseCtx    context.Context
	cancelBase context.CancelFunc
	startTime  time.Time
}

// New constructs a Manager. No I/O happens until EnsureLoaded or Preload.
func New(cfg ManagerConfig) *Manager {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(cfg.BaseContext)
	return &Manager{
		cfg:        cfg,
		log:        cfg.Logger.With().Str("component", "manager").Logger(),
		state:      StateIdle,
		slots:      semaphore.NewWeighted(int64(cfg.MaxInflight)),
		baseCtx:    ctx,
		cancelBase: cancel,
		startTime:  cfg.now(),
	}
}

// State returns the current load state.
func (m *Manager) State() LoadState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Loaded reports whether the engine handle is available.
func (m *Manager) Loaded() bool { return m.State() == StateLoaded }

// ModelName returns the configured artifact filename.
func (m *Manager) ModelName() string { return m.cfg.ModelFile }

func (m *Manager) currentEngine() (llm.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.engine == nil {
		return nil, &ModelLoadError{Path: m.modelPath, Err: errNotLoaded}
	}
	return m.engine, nil
}

// Close cancels pending loads and releases the engine. Safe to call twice.
func (m *Manager) Close() error {
	m.cancelBase()
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	eng := m.engine
	m.engine = nil
	m.state = StateIdle
	m.mu.Unlock()
	if eng == nil {
		return nil
	}
	m.cfg.Publisher.Publish(Event{Name: "engine_close", ModelID: m.cfg.ModelFile})
	return eng.Close()
}
