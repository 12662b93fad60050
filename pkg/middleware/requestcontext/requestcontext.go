package requestcontext

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// Option enriches the request context. Returning a public error rejects the request.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// New applies opts in order and stores the resulting context as the fiber user context.
func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		for i, opt := range opts {
			next, err := opt(ctx, c)
			if err != nil {
				if errors.HasType(err, (*errs.PublicError)(nil)) {
					return errors.WithStack(err)
				}
				logger.ErrorContext(ctx, "failed to extract request context",
					slogx.Error(err),
					slog.String("event", "requestcontext/error"),
					slog.String("module", "requestcontext"),
					slog.Int("optionIndex", i),
				)
				return errors.Wrap(err, "failed to extract request context")
			}
			ctx = next
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
