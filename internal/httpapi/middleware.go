package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/veldt/go_storefront/internal/auth"
	"github.com/veldt/go_storefront/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Authenticate validates the bearer token and resolves the server-side
// session it names. Requests with no live session must re-authenticate.
func Authenticate(issuer *auth.TokenIssuer, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := issuer.Parse(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			s, ok := sessions.Get(claims.SessionID)
			if !ok {
				respondError(w, http.StatusUnauthorized, "session_expired", "session not found, sign in again")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*session.Session)
	return s, ok
}
