package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shinyyama/kidtokid/internal/reqctx"
	"github.com/shinyyama/kidtokid/internal/transport"
)

// RequestID takes the caller's X-Request-ID or generates one, echoes it on
// the response and stores it in the request context so that gateway calls
// and log lines carry the same id.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		rid := req.Header.Get(transport.HeaderRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Response().Header().Set(transport.HeaderRequestID, rid)
		c.Set("rid", rid)
		c.SetRequest(req.WithContext(reqctx.WithRID(req.Context(), rid)))
		return next(c)
	}
}
