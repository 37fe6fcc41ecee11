package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// SessionKey holds the visitor's session ID in the request context.
const SessionKey contextKey = "session"

// SessionCookieName identifies the visitor's tab-scoped session.
const SessionCookieName = "lb_sid"

// SessionCookie assigns every visitor a session ID cookie and exposes it in
// the request context. The cookie is the Go analogue of the browser tab
// session the product stores its active analysis under.
func SessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), SessionKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session ID, or "" outside the middleware.
func SessionFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(SessionKey).(string); ok {
		return sid
	}
	return ""
}
