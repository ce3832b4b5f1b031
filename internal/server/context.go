package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/builder"
)

type entryKey struct{}

// withSession resolves {sessionID} and stores the entry on the request
// context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e, err := s.sessions.get(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		ctx := context.WithValue(r.Context(), entryKey{}, e)
		ctx = builder.NewContext(ctx, e.session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the entry installed by withSession. Calling it from a
// route outside the session scope is a wiring bug and panics.
func sessionFrom(ctx context.Context) *entry {
	e, ok := ctx.Value(entryKey{}).(*entry)
	if !ok || e == nil {
		panic("server: session used outside of its scope")
	}
	builder.MustFromContext(ctx)
	return e
}
