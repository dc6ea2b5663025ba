package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Lee-Rose/python-final-diplom/api/responses"
	"github.com/Lee-Rose/python-final-diplom/internal/users"
	pkgAuth "github.com/Lee-Rose/python-final-diplom/pkg/auth"
	"github.com/Lee-Rose/python-final-diplom/pkg/config"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
// When a checker is supplied, tokens of deactivated or deleted users are
// rejected even before expiry.
func Auth(cfg config.JWTConfig, checker users.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if checker != nil {
				active, err := checker.IsActive(r.Context(), claims.UserID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking user"))
					return
				}
				if !active {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user inactive"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxUserType, string(claims.Type))

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				ctx = logg.WithField(ctx, "user_type", string(claims.Type))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
