package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tupine/lifegear/storage/session"
)

// sessionKeepAliveMiddleware marks the session live on every authed request
// so the idle reaper only collects sessions whose tabs are all gone.
func sessionKeepAliveMiddleware(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			store.Touch(claims.SessionID)
			return next(ctx)
		}
	}
}
