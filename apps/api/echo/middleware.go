package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core/session"
)

// sessionMiddleware resolves the session referenced by the JWT claims and
// stores it on the request context. An unknown or expired session ID is
// treated the same as a missing token.
func sessionMiddleware(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			sess, ok := store.Get(claims.SessionID)
			if !ok {
				return errSessionExpired
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

func systemAdminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(session.SystemAdmin{}.RoleName())
}

func schoolAdminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(session.SchoolAdmin{}.RoleName())
}

func roleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.Role == role {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
