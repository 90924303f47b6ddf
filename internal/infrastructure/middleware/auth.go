package middleware

import (
	"context"
	"net/http"

	"gateway-core/internal/application"
	"gateway-core/internal/infrastructure/api"

	"github.com/rs/zerolog"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const callerIdentityKey contextKey = "caller_identity"

// CallerIdentity returns the authenticated caller's key name, empty when the
// request did not pass through the route gate.
func CallerIdentity(ctx context.Context) string {
	identity, _ := ctx.Value(callerIdentityKey).(string)
	return identity
}

// RouteGate authorizes the caller's API key for the given route name before
// the handler runs. Denials short-circuit with the domain error body.
func RouteGate(auth *application.AuthorizationService, routeName string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := auth.Authorize(r.Context(), r.Header.Get(api.HeaderAPIKey), routeName)
			if err != nil {
				logger.Warn().Err(err).Str("route", routeName).Msg("Authorization denied")
				api.WriteError(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), callerIdentityKey, result.Identifier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InternalGate protects administration endpoints with the pre-shared
// service token.
func InternalGate(auth *application.InternalAuthService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Authorize(r.Header.Get(api.HeaderAPIKey)); err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Internal authorization denied")
				api.WriteError(w, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
