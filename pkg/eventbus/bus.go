package eventbus

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler processes an event. Handlers run on the bus consumer goroutine, one
// event at a time.
type Handler interface {
	HandleEvent(ctx context.Context, evt Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Bus is an in-process event bus. Published events go through a buffered
// channel and are dispatched to every subscriber by a single consumer
// goroutine.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]namedHandler
	nextID      uint64
	events      chan Event
	done        chan struct{}
	stopOnce    sync.Once
	logger      logrus.FieldLogger
}

type namedHandler struct {
	name    string
	handler Handler
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for dropped events and handler failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Bus with the given channel buffer size.
func New(bufSize int, opts ...Option) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	b := &Bus{
		subscribers: make(map[uint64]namedHandler),
		events:      make(chan Event, bufSize),
		done:        make(chan struct{}),
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Subscribe registers a named handler and returns a function that removes it.
// Subscribers may be added while the bus is running.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = namedHandler{name: name, handler: h}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// Publish queues an event. It never blocks: when the buffer is full the event
// is dropped and a warning is logged.
func (b *Bus) Publish(_ context.Context, evt Event) {
	select {
	case b.events <- evt:
	default:
		b.logger.WithFields(logrus.Fields{
			"kind":    evt.Kind,
			"session": evt.SessionID,
		}).Warn("eventbus: buffer full, dropping event")
	}
}

// Start runs the consumer goroutine until ctx is cancelled or Stop is called.
// Queued events are drained before it exits.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt, ok := <-b.events:
				if !ok {
					return
				}
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				for {
					select {
					case evt, ok := <-b.events:
						if !ok {
							return
						}
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop closes the bus and waits for the consumer goroutine to finish. Publish
// must not be called after Stop.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() {
		close(b.events)
	})
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt Event) {
	b.mu.RLock()
	subs := make([]namedHandler, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			b.logger.WithFields(logrus.Fields{
				"handler": s.name,
				"kind":    evt.Kind,
			}).WithError(err).Error("eventbus: handler failed")
		}
	}
}
