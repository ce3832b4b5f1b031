package builder

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/eventbus"
)

// Notifier receives session events. *eventbus.Bus satisfies it.
type Notifier interface {
	Publish(ctx context.Context, evt eventbus.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, evt eventbus.Event)

func (f NotifierFunc) Publish(ctx context.Context, evt eventbus.Event) {
	f(ctx, evt)
}

type discardNotifier struct{}

func (discardNotifier) Publish(context.Context, eventbus.Event) {}
