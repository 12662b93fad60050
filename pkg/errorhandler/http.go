package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[errs.ErrorKind]int{
	errs.InvalidArgument: http.StatusBadRequest,
	errs.Cycle:           http.StatusBadRequest,
	errs.NotFound:        http.StatusNotFound,
	errs.Conflict:        http.StatusConflict,
	errs.Unauthorized:    http.StatusUnauthorized,
	errs.Forbidden:       http.StatusForbidden,
	errs.Timeout:         http.StatusGatewayTimeout,
	errs.Unsupported:     http.StatusNotImplemented,
}

// NewHTTPErrorHandler maps errors to `{"error": message}` responses.
// Public errors expose their message, known error kinds expose only the kind, and everything else is logged and answered with a generic 500.
func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			status, ok := statusByKind[errs.Kind(err)]
			if !ok {
				status = http.StatusBadRequest
			}
			return errors.WithStack(ctx.Status(status).JSON(fiber.Map{
				"error": e.Message(),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(fiber.Map{
				"error": e.Message,
			}))
		}

		if status, ok := statusByKind[errs.Kind(err)]; ok {
			return errors.WithStack(ctx.Status(status).JSON(fiber.Map{
				"error": errs.Kind(err).Error(),
			}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error",
			slogx.String("event", "api_unhandled_error"),
			slogx.Error(err),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		}))
	}
}
