package requestcontext

import (
	"context"

	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

type requestIdKey struct{}

// GetRequestId returns the request id, or "" when the request context was not set up.
func GetRequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// WithRequestId reuses the id set by the requestid middleware or the X-Request-ID header,
// generating one when both are missing, and adds it to the context logger.
func WithRequestId() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		requestId, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if requestId == "" {
			requestId = c.Get(requestid.ConfigDefault.Header)
			if requestId == "" {
				requestId = uuid.NewString()
			}
			c.Set(requestid.ConfigDefault.Header, requestId)
			c.Locals(requestid.ConfigDefault.ContextKey, requestId)
		}

		ctx = context.WithValue(ctx, requestIdKey{}, requestId)
		ctx = logger.WithContext(ctx, "requestId", requestId)
		return ctx, nil
	}
}
