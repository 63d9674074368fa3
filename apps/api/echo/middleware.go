package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core/student"
)

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// ctxStudentOrAdminMiddleware guards detail routes: the target student is
// loaded under "object" when the caller is that student or an admin.
// Both a missing id and someone else's id read as not found.
func ctxStudentOrAdminMiddleware(svc student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxStd, err := getContextStudent(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context student")
			}

			if ctx.Param("id") == ctxStd.ID || ctxStd.IsAdmin() {
				if std, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set("object", std)
					return next(ctx)
				} else if errors.Cause(err) != student.ErrNotFound {
					return errors.Wrap(err, "finding student by ID")
				}
			}
			return errHttpNotFound
		}
	}
}
