package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
)

type ctxKey string

var ctxKeyUserID ctxKey = "USER_ID"

// Authn resolves the caller identity from the X-User-ID header set by
// the gateway. It does not terminate unidentified requests; handlers
// that need a user call ResolveUserID and fail there.
func Authn() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get("X-User-ID"))
			if header == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyUserID, header)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(ctxKeyUserID).(string)
	if !ok || userID == "" {
		return "", errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}
	return userID, nil
}

// abortInvalid is the common bind-failure response.
func abortInvalid(c echo.Context, err error) error {
	return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
}
