package eventbus

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogConsumer writes every event to a logrus logger at a level matching the
// event's severity.
type LogConsumer struct {
	logger logrus.FieldLogger
}

func NewLogConsumer(logger logrus.FieldLogger) *LogConsumer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogConsumer{logger: logger}
}

func (c *LogConsumer) HandleEvent(_ context.Context, evt Event) error {
	entry := c.logger.WithFields(logrus.Fields{
		"kind":      evt.Kind,
		"session":   evt.SessionID,
		"component": evt.ComponentID,
	})
	switch evt.Level {
	case LevelError:
		entry.Warn(evt.Message)
	case LevelSuccess:
		entry.Info(evt.Message)
	default:
		entry.Debug(evt.Message)
	}
	return nil
}
