package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/middleware/auth"
	"github.com/gaze-network/distributor-network/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type Config struct {
	WithRequestHeader    bool     `mapstructure:"request_header"`
	WithRequestQuery     bool     `mapstructure:"request_query"`
	Disable              bool     `mapstructure:"disable"` // drop INFO level request logs
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
}

// New logs one line per request. The caller identity is attached when the route is authenticated.
func New(config Config) fiber.Handler {
	hiddenRequestHeaders := lo.SliceToMap(config.HiddenRequestHeaders, func(header string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(header)), struct{}{}
	})
	// bearer tokens never reach the logs
	hiddenRequestHeaders[strings.ToLower(fiber.HeaderAuthorization)] = struct{}{}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)
		status := c.Response().StatusCode()

		level := slog.LevelInfo
		if err != nil || status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		if config.Disable && level == slog.LevelInfo {
			return errors.WithStack(err)
		}

		ctx := c.UserContext()
		requestAttrs := []slog.Attr{
			slog.Time("time", start),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", requestcontext.GetClientIP(ctx)),
			slog.String("user-agent", string(c.Context().UserAgent())),
			slog.Any("params", c.AllParams()),
			slog.Int("length", len(c.Body())),
		}
		if config.WithRequestQuery {
			requestAttrs = append(requestAttrs, slog.String("query", string(c.Request().URI().QueryString())))
		}
		if config.WithRequestHeader {
			var headers []any
			for k, v := range c.GetReqHeaders() {
				if _, hidden := hiddenRequestHeaders[strings.ToLower(k)]; hidden {
					continue
				}
				headers = append(headers, slog.Any(k, v))
			}
			requestAttrs = append(requestAttrs, slog.Group("header", headers...))
		}

		attrs := []slog.Attr{
			slog.String("event", "api_request"),
			slog.Int64("latency", latency.Milliseconds()),
			slog.String("latencyHuman", latency.String()),
			{Key: "request", Value: slog.GroupValue(requestAttrs...)},
			{Key: "response", Value: slog.GroupValue(
				slog.Int("status", status),
				slog.Int("length", len(c.Response().Body())),
			)},
		}
		if id, ok := auth.FromContext(ctx); ok {
			attrs = append(attrs, slog.Group("caller",
				slog.String("distributorId", id.DistributorID),
				slog.String("role", id.Role),
			))
		}
		if level == slog.LevelError {
			logErr := err
			if logErr == nil {
				logErr = fiber.NewError(status)
			}
			attrs = append(attrs, slog.Any("error", logErr))
		}

		logger.LogAttrs(ctx, level, "Request Completed", attrs...)
		return errors.WithStack(err)
	}
}
