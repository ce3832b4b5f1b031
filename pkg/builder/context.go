package builder

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext returns the session stored in ctx and panics when there is
// none.
func MustFromContext(ctx context.Context) *Session {
	s, _ := FromContext(ctx)
	return MustSession(s)
}
