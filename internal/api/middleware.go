package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

// policy names the grant a route demands from the authenticated caller.
type policy int

const (
	// policyAnyValid requires a valid token but no particular grant.
	policyAnyValid policy = iota
	// policyRegular requires "<scope> regular" for the library on the
	// request path; "<scope> admin" satisfies it too.
	policyRegular
	// policyAdmin requires "<scope> admin" for the library on the path.
	policyAdmin
	// policySuperuser requires the standalone superuser grant.
	policySuperuser
)

// requireGrant is middleware that authenticates the bearer token and
// authorizes the caller against the route's policy. When authorization is
// disabled in config the gate passes every request through untouched.
func (s *Server) requireGrant(p policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.config.Auth.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, "missing or malformed authorization header", s.logger)
				return
			}

			user, err := s.authority.Authenticate(r.Context(), token)
			if err != nil {
				response.Unauthorized(w, "invalid or expired token", s.logger)
				return
			}

			if err := s.authorize(r, user, p); err != nil {
				response.HandleError(w, err, s.logger)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authorize checks the user's grants against the policy. Library-scoped
// policies resolve the scope of the library named on the request path; a
// library that does not exist reads as not found, before any grant check.
func (s *Server) authorize(r *http.Request, user *domain.User, p policy) error {
	switch p {
	case policyAnyValid:
		return nil
	case policySuperuser:
		return s.authority.Authorize(user, domain.ScopeSuperuser)
	}

	libScope, err := s.scopes.Resolve(r.Context(), chi.URLParam(r, "libraryID"))
	if err != nil {
		return err
	}

	if p == policyAdmin {
		return s.authority.Authorize(user, libScope+" "+domain.RoleAdmin)
	}

	err = s.authority.Authorize(user, libScope+" "+domain.RoleRegular)
	if err != nil && errors.Is(err, errors.ErrInvalidScope) {
		// Admin for a scope implies regular for it.
		return s.authority.Authorize(user, libScope+" "+domain.RoleAdmin)
	}
	return err
}

// requireNotProduction rejects requests unless the environment is known to
// be a non-production one. Unknown environments are treated as production.
// This gate is independent of token state and ignores the auth toggle.
func (s *Server) requireNotProduction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch s.config.App.Environment {
		case "development", "staging":
			next.ServeHTTP(w, r)
		default:
			response.Forbidden(w, "not available in this environment", s.logger)
		}
	})
}

// limitLogin throttles credential endpoints per client address.
func (s *Server) limitLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !s.loginLimiter.Allow(key) {
			s.logger.Warn("login rate limit exceeded", "ip", key, "path", r.URL.Path)
			response.TooManyRequests(w, "too many attempts, try again later", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from a "Bearer <token>" authorization
// header. Returns empty on any other shape.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// currentUser returns the authenticated user attached by requireGrant, or
// nil when the request was not authenticated.
func currentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(contextKeyUser).(*domain.User)
	return user
}

// clientIP returns the request's client address. The RealIP middleware has
// already folded proxy headers into RemoteAddr; strip the port if present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
