package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
)

const ctxUserKey = "user"

// authMiddleware rejects requests while the session is anonymous and attaches
// the session user to the request context otherwise.
func authMiddleware(sess *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			st := sess.State()
			if !st.IsAuthenticated || st.User == nil {
				return session.ErrUnauthenticated
			}
			ctx.Set(ctxUserKey, *st.User)
			return next(ctx)
		}
	}
}

// rolesMiddleware further restricts a route to the given roles.
func rolesMiddleware(roles ...school.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr := contextUser(ctx)
			for _, role := range roles {
				if usr.Role == role {
					return next(ctx)
				}
			}
			return errHTTPForbidden
		}
	}
}

func contextUser(ctx echo.Context) school.User {
	usr, _ := ctx.Get(ctxUserKey).(school.User)
	return usr
}
