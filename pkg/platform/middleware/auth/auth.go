package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/httputil"
	"onegov/pkg/requestcontext"
)

// JWTValidator validates a bearer token.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims are the claims the middleware needs from a validated token.
type JWTClaims struct {
	CitizenID string
	Role      string
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// actor Session to the context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return authenticate(validator, logger, true)
}

// OptionalAuth attaches a Session when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func OptionalAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return authenticate(validator, logger, false)
}

func authenticate(validator JWTValidator, logger *slog.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			session, err := sessionFromClaims(claims)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed claims",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithSession(ctx, session)))
		})
	}
}

func sessionFromClaims(claims *JWTClaims) (requestcontext.Session, error) {
	role, err := id.ParseActorRole(claims.Role)
	if err != nil {
		return requestcontext.Session{}, err
	}
	citizenID, err := id.ParseCitizenID(claims.CitizenID)
	if err != nil {
		return requestcontext.Session{}, err
	}
	return requestcontext.Session{CitizenID: citizenID, Role: role}, nil
}

// RequireRole rejects sessions whose role is not in the allowed set.
// Must run after RequireAuth.
func RequireRole(logger *slog.Logger, allowed ...id.ActorRole) func(http.Handler) http.Handler {
	set := make(map[id.ActorRole]bool, len(allowed))
	for _, r := range allowed {
		set[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			session := requestcontext.SessionFrom(ctx)
			if session.IsAnonymous() {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !set[session.Role] {
				logger.WarnContext(ctx, "forbidden - role not allowed",
					"role", session.Role,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "role not permitted for this action"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
