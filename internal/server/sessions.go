package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/eventbus"
	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

var errSessionNotFound = errors.New("server: session not found")

// entry is everything the server keeps per builder session: the session,
// the values of its generated form, its event bus and the errors of the last
// rejected submission.
type entry struct {
	session *builder.Session
	store   *formdata.Store
	bus     *eventbus.Bus
	cancel  context.CancelFunc

	mu         sync.Mutex
	lastActive time.Time
	lastErrors render.ErrorMapping
}

func (e *entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastActive = now
	e.mu.Unlock()
}

func (e *entry) idleSince(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastActive)
}

func (e *entry) setErrors(m render.ErrorMapping) {
	e.mu.Lock()
	e.lastErrors = m
	e.mu.Unlock()
}

func (e *entry) submitErrors() render.ErrorMapping {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErrors
}

func (e *entry) close() {
	e.cancel()
	e.bus.Stop()
}

// sessionManager owns the live builder sessions and drops the ones left idle
// for longer than idleTimeout.
type sessionManager struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	idleTimeout time.Duration
	now         func() time.Time
	options     []builder.Option
	logger      logrus.FieldLogger
}

func newSessionManager(idleTimeout time.Duration, logger logrus.FieldLogger, opts ...builder.Option) *sessionManager {
	return &sessionManager{
		entries:     make(map[string]*entry),
		idleTimeout: idleTimeout,
		now:         time.Now,
		options:     opts,
		logger:      logger,
	}
}

func (m *sessionManager) create() *entry {
	ctx, cancel := context.WithCancel(context.Background())
	bus := eventbus.New(64, eventbus.WithLogger(m.logger))
	bus.Subscribe("log", eventbus.NewLogConsumer(m.logger))
	bus.Start(ctx)

	opts := append([]builder.Option{builder.WithLogger(m.logger)}, m.options...)
	// the bus stays the notifier even when options carry another one
	opts = append(opts, builder.WithNotifier(bus))

	e := &entry{
		session:    builder.New(opts...),
		store:      formdata.NewStore(),
		bus:        bus,
		cancel:     cancel,
		lastActive: m.now(),
	}

	m.mu.Lock()
	m.entries[e.session.ID()] = e
	m.mu.Unlock()

	m.logger.WithField("session", e.session.ID()).Info("session created")
	return e
}

// get returns the entry for id and marks it active. Idle entries are
// removed on access.
func (m *sessionManager) get(id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errSessionNotFound
	}
	now := m.now()
	if m.idleTimeout > 0 && e.idleSince(now) > m.idleTimeout {
		m.remove(id)
		return nil, errSessionNotFound
	}
	e.touch(now)
	return e, nil
}

func (m *sessionManager) remove(id string) bool {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()
	if ok {
		e.close()
		m.logger.WithField("session", id).Info("session closed")
	}
	return ok
}

// sweep removes every idle session and reports how many were dropped.
func (m *sessionManager) sweep() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	now := m.now()
	var stale []string
	m.mu.RLock()
	for id, e := range m.entries {
		if e.idleSince(now) > m.idleTimeout {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.remove(id)
	}
	return len(stale)
}

// run sweeps on every tick until ctx is done.
func (m *sessionManager) run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.sweep(); n > 0 {
				m.logger.WithField("count", n).Debug("idle sessions removed")
			}
		}
	}
}

func (m *sessionManager) closeAll() {
	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[string]*entry)
	m.mu.Unlock()
	for _, e := range entries {
		e.close()
	}
}

func (m *sessionManager) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
