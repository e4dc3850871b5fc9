package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Headers set by the authenticating proxy in front of the API.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

type actorKey struct{}

// Identity trusts the identity headers as-is. Requests without a user id are
// rejected with 401; an unknown role is treated as a regular user.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if id == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "UNAUTHORIZED",
				"message": "missing " + HeaderUserID + " header",
			})
			return
		}

		role, err := entity.ParseRole(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))))
		if err != nil {
			role = entity.RoleUser
		}

		actor := entity.Actor{
			ID:    id,
			Name:  r.Header.Get(HeaderUserName),
			Email: r.Header.Get(HeaderUserEmail),
			Role:  role,
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func WithActor(ctx context.Context, a entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (entity.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(entity.Actor)
	return a, ok
}

// RequireAdmin must run after Identity.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFrom(r.Context())
		if !ok || !actor.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   usecase.CodeForbidden,
				"message": "admin role required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestMeta stores the client address and user agent for activity logging.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := usecase.RequestMeta{
			IPAddress: ClientIP(r),
			UserAgent: r.UserAgent(),
		}
		next.ServeHTTP(w, r.WithContext(usecase.WithRequestMeta(r.Context(), meta)))
	})
}

// ClientIP is the peer address without its port. Forwarding headers are
// ignored here; the router rewrites RemoteAddr from them only when proxy
// headers are trusted.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
