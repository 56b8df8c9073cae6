package middleware

import (
	stdErrors "errors"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/auth"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
	"github.com/frahmantamala/ipg-checkout/pkg/logger"
)

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// AdminAuth guards back-office routes with an HS256 bearer token.
func AdminAuth(validator TokenValidator, lg *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.BearerToken(r)
			if token == "" {
				base.HandleError(w, errors.ErrTokenMissing)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				if stdErrors.Is(err, auth.ErrForbidden) {
					base.HandleError(w, errors.NewForbiddenError("admin role required", errors.ErrCodeInvalidToken))
					return
				}
				base.HandleError(w, errors.ErrInvalidToken.WithCause(err))
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			ctx = logger.With(ctx, "admin", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Session copies the storefront session id into the request context.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(errors.SessionHeader)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := errors.ContextWithSessionID(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
