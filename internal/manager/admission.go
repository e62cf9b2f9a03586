package manager

import "context"

// beginGeneration waits for an engine slot. Returns a release func to be
// deferred. Waiters are bounded only by their context.
func (m *Manager) beginGeneration(ctx context.Context) (func(), error) {
	m.waiting.Add(1)
	err := m.slots.Acquire(ctx, 1)
	m.waiting.Add(-1)
	if err != nil {
		return func() {}, err
	}
	m.inflight.Add(1)
	return func() {
		m.inflight.Add(-1)
		m.slots.Release(1)
	}, nil
}
