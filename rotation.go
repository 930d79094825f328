package empath

import (
	"sync"

	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Provider Rotation Manager — round-robin-on-failure
// ──────────────────────────────────────────────

// RotationManager holds the ordered priority list of providers and their
// usage counters. Usage is counted on selection, not on confirmed
// success. Rotation only advances when a caller reports failure; each
// orchestration call rewinds to the highest-priority provider first.
type RotationManager struct {
	mu        sync.Mutex
	providers []Provider
	usage     map[string]int
	index     int
	logger    *zap.Logger
}

// NewRotationManager creates a manager over providers in priority order.
// A nil logger defaults to zap.NewNop().
func NewRotationManager(providers []Provider, logger *zap.Logger) *RotationManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RotationManager{
		providers: providers,
		usage:     make(map[string]int),
		logger:    logger,
	}
}

// IsAvailable reports whether at least one provider is configured.
func (m *RotationManager) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.providers) > 0
}

// Len returns the number of configured providers.
func (m *RotationManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.providers)
}

// Current returns the provider at the rotation index and increments its
// usage counter. Returns false when no provider is configured.
func (m *RotationManager) Current() (Provider, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.providers) == 0 {
		return nil, false
	}
	p := m.providers[m.index%len(m.providers)]
	m.usage[p.Name()]++
	return p, true
}

// Rotate advances circularly to the next provider. Callers invoke it only
// after the current provider's attempt failed.
func (m *RotationManager) Rotate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.providers) == 0 {
		return
	}
	m.index = (m.index + 1) % len(m.providers)
	m.logger.Debug("provider rotated",
		zap.String("provider", m.providers[m.index].Name()),
		zap.Int("index", m.index))
}

// Rewind resets the rotation to the highest-priority provider. The
// orchestrator calls it at the start of each request.
func (m *RotationManager) Rewind() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
}

// Usage returns the selection count for the named provider.
func (m *RotationManager) Usage(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage[name]
}
