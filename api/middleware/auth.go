package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/ordermanagement-api/api/responses"
	pkgAuth "github.com/angelmondragon/ordermanagement-api/pkg/auth"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
	"github.com/angelmondragon/ordermanagement-api/pkg/metrics"
)

// Authenticator resolves the identity behind an Authorization header.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*pkgAuth.Identity, error)
}

// Auth requires a valid token and seeds the request context with the identity.
func Auth(gate Authenticator, authMetrics *metrics.AuthMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(gate, authMetrics, logg, true)
}

// OptionalAuth attaches an identity when credentials are present. Requests
// without an Authorization header pass through anonymously; presented but
// invalid credentials are still rejected.
func OptionalAuth(gate Authenticator, authMetrics *metrics.AuthMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(gate, authMetrics, logg, false)
}

func authenticate(gate Authenticator, authMetrics *metrics.AuthMetrics, logg *logger.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if gate == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth gate unavailable"))
				return
			}

			identity, err := gate.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				reason, rejected := pkgAuth.RejectionReason(err)
				if !rejected {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "authenticate request"))
					return
				}
				if reason == pkgAuth.ReasonMissing && !required {
					next.ServeHTTP(w, r)
					return
				}
				authMetrics.IncRejection(string(reason))
				if logg != nil {
					ctx = logg.WithField(ctx, "auth_reason", string(reason))
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unauthorized"))
				return
			}

			authMetrics.IncAuthenticated()
			ctx = WithIdentity(ctx, identity)
			if logg != nil {
				ctx = logg.WithAccountID(ctx, identity.Account.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
