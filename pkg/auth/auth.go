// Package auth establishes the acting user for a request and enforces
// role-string checks. Domain systems receive the resulting Actor explicitly;
// nothing below the HTTP layer reads it from ambient state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/docket/pkg/handlers"
)

var (
	// ErrUnauthenticated indicates no actor could be established for the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the actor's role is not permitted for the operation.
	ErrForbidden = errors.New("role not permitted")
)

// Actor identifies who performs an operation.
type Actor struct {
	ID   string `json:"actor_id"`
	Role string `json:"role"`
}

// HasRole reports whether the actor's role is one of roles. Comparison ignores case.
func (a Actor) HasRole(roles ...string) bool {
	return slices.ContainsFunc(roles, func(r string) bool {
		return strings.EqualFold(r, a.Role)
	})
}

type actorKey struct{}

// WithActor returns a context carrying actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// FromContext returns the actor stored by Middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// Authenticator resolves the actor for a request.
type Authenticator interface {
	Authenticate(r *http.Request) (Actor, error)
}

// New returns a TokenAuthenticator when cfg.Enabled, otherwise a HeaderAuthenticator.
// The remote key set is fetched lazily on the first verification.
func New(cfg *Config) Authenticator {
	if !cfg.Enabled {
		return &HeaderAuthenticator{
			ActorHeader: cfg.ActorHeader,
			RoleHeader:  cfg.RoleHeader,
		}
	}

	keySet := oidc.NewRemoteKeySet(context.Background(), cfg.JWKSURL)
	verifier := oidc.NewVerifier(cfg.Issuer, keySet, &oidc.Config{ClientID: cfg.ClientID})
	return NewTokenAuthenticator(verifier, cfg.RoleClaim)
}

// HeaderAuthenticator trusts actor headers set by an upstream session layer.
type HeaderAuthenticator struct {
	ActorHeader string
	RoleHeader  string
}

func (h *HeaderAuthenticator) Authenticate(r *http.Request) (Actor, error) {
	id := strings.TrimSpace(r.Header.Get(h.ActorHeader))
	if id == "" {
		return Actor{}, ErrUnauthenticated
	}
	return Actor{
		ID:   id,
		Role: strings.TrimSpace(r.Header.Get(h.RoleHeader)),
	}, nil
}

// TokenAuthenticator verifies an OIDC ID token from the Authorization header.
// The token subject becomes the actor ID and roleClaim supplies the role.
type TokenAuthenticator struct {
	verifier  *oidc.IDTokenVerifier
	roleClaim string
}

// NewTokenAuthenticator creates a TokenAuthenticator around a configured verifier.
func NewTokenAuthenticator(verifier *oidc.IDTokenVerifier, roleClaim string) *TokenAuthenticator {
	return &TokenAuthenticator{
		verifier:  verifier,
		roleClaim: roleClaim,
	}
}

func (t *TokenAuthenticator) Authenticate(r *http.Request) (Actor, error) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return Actor{}, ErrUnauthenticated
	}

	token, err := t.verifier.Verify(r.Context(), raw)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	var claims map[string]any
	if err := token.Claims(&claims); err != nil {
		return Actor{}, fmt.Errorf("%w: decode claims: %v", ErrUnauthenticated, err)
	}

	return Actor{
		ID:   token.Subject,
		Role: roleFromClaim(claims[t.roleClaim]),
	}, nil
}

// roleFromClaim accepts a string claim or takes the first string of an array claim.
func roleFromClaim(v any) string {
	switch role := v.(type) {
	case string:
		return role
	case []any:
		for _, r := range role {
			if s, ok := r.(string); ok {
				return s
			}
		}
	}
	return ""
}

// Middleware rejects requests without an actor (401) and stores the actor in the request context.
func Middleware(a Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := a.Authenticate(r)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireRole wraps next so it only runs for actors holding one of roles (403 otherwise).
// Requests that reached RequireRole without Middleware are rejected with 401.
func RequireRole(roles []string, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := FromContext(r.Context())
		if !ok {
			handlers.RespondError(w, logger, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}
		if !actor.HasRole(roles...) {
			handlers.RespondError(w, logger, http.StatusForbidden,
				fmt.Errorf("%w: %q", ErrForbidden, actor.Role))
			return
		}
		next(w, r)
	}
}
