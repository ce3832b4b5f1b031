package builder

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/factory"
)

// Option configures a Session.
type Option func(*Session)

// WithID fixes the session id. By default a uuid is generated.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithFactory sets the component factory used by Drop.
func WithFactory(f *factory.Factory) Option {
	return func(s *Session) {
		if f != nil {
			s.factory = f
		}
	}
}

// WithNotifier sets the sink for session events.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGenerateDelay sets the pause spent in the generating state. It is
// purely cosmetic and defaults to zero.
func WithGenerateDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.generateDelay = d
		}
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
