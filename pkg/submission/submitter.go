package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Payload is what a successful submission hands to its sink.
type Payload struct {
	Description    []DescriptionField `json:"productDescription,omitempty"`
	HasDescription bool               `json:"-"`
	Values         map[string]any     `json:"formData"`
	SubmittedAt    time.Time          `json:"submittedAt"`
}

// Sink receives validated submissions.
type Sink interface {
	Deliver(ctx context.Context, payload Payload) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, payload Payload) error

func (f SinkFunc) Deliver(ctx context.Context, payload Payload) error {
	return f(ctx, payload)
}

// LogSink writes submissions as JSON through logrus.
type LogSink struct {
	logger logrus.FieldLogger
}

func NewLogSink(logger logrus.FieldLogger) *LogSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(_ context.Context, payload Payload) error {
	if payload.HasDescription {
		desc, err := json.MarshalIndent(payload.Description, "", "  ")
		if err != nil {
			return fmt.Errorf("submission: encode description: %w", err)
		}
		s.logger.WithField("fields", len(payload.Description)).Info("Product Description JSON:\n" + string(desc))
	}
	values, err := json.Marshal(payload.Values)
	if err != nil {
		return fmt.Errorf("submission: encode form data: %w", err)
	}
	s.logger.WithField("keys", len(payload.Values)).Info("Form data: " + string(values))
	return nil
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithSink sets the submission sink. Defaults to a LogSink.
func WithSink(sink Sink) Option {
	return func(s *Submitter) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets the logger used by the default sink and for outcomes.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Submitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) {
		if now != nil {
			s.now = now
		}
	}
}

// Submitter validates a generated form's values, hands them to a sink and
// resets the store.
type Submitter struct {
	sink   Sink
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewSubmitter(opts ...Option) *Submitter {
	s := &Submitter{
		logger: logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sink == nil {
		s.sink = NewLogSink(s.logger)
	}
	return s
}

// Submit validates store against tree. Violations return a *ValidationError
// and leave the store untouched, as does a sink failure. On success the
// store is reset.
func (s *Submitter) Submit(ctx context.Context, tree model.Tree, store *formdata.Store) (Payload, error) {
	if len(tree) == 0 {
		return Payload{}, ErrNoGeneratedForm
	}
	values := store.Snapshot()
	if violations := formdata.Validate(tree, values); len(violations) > 0 {
		return Payload{}, &ValidationError{Violations: violations}
	}

	description, ok := Describe(tree)
	payload := Payload{
		Description:    description,
		HasDescription: ok,
		Values:         values,
		SubmittedAt:    s.now(),
	}
	if err := s.sink.Deliver(ctx, payload); err != nil {
		s.logger.WithError(err).Error("submission failed")
		return Payload{}, fmt.Errorf("submission: deliver: %w", err)
	}
	store.Reset()
	return payload, nil
}
