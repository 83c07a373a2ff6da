package sinks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
)

// Manager fans events out to every registered sink in registration order.
type Manager struct {
	sinks map[string]Sink
	order []string
	mu    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sinks: make(map[string]Sink),
	}
}

// RegisterSink adds or replaces a sink under name.
func (m *Manager) RegisterSink(name string, sink Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sinks[name]; !exists {
		m.order = append(m.order, name)
	}
	m.sinks[name] = sink
}

// Names lists registered sinks in the order they receive events.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Emit delivers event to every sink. A failing sink is logged and does not
// stop the others; the joined error is returned.
func (m *Manager) Emit(ctx context.Context, event statuspage.Event) error {
	m.mu.RLock()
	targets := make([]Sink, 0, len(m.order))
	names := make([]string, 0, len(m.order))
	for _, name := range m.order {
		targets = append(targets, m.sinks[name])
		names = append(names, name)
	}
	m.mu.RUnlock()

	var errs []error
	for i, sink := range targets {
		if err := sink.Emit(ctx, event); err != nil {
			logger.Errorf("Sink %s failed for %s event from %s: %v", names[i], event.Kind, event.Source, err)
			errs = append(errs, fmt.Errorf("%s: %w", names[i], err))
		}
	}
	return errors.Join(errs...)
}
