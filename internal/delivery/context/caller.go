package context

import (
	"leadhub/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// SetCaller stores the resolved caller in echo.Context.
func SetCaller(c echo.Context, caller entity.Caller) {
	c.Set(string(KeyCaller), caller)
}

// GetCaller returns the caller resolved by the auth middleware,
// or the anonymous caller when none was resolved.
func GetCaller(c echo.Context) entity.Caller {
	if caller, ok := c.Get(string(KeyCaller)).(entity.Caller); ok {
		return caller
	}

	return entity.AnonymousCaller()
}
