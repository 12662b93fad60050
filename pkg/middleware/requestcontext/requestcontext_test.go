package requestcontext

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gaze-network/distributor-network/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(opts ...Option) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	app.Use(New(opts...))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetClientIP(c.UserContext()) + "|" + GetRequestId(c.UserContext()))
	})
	return app
}

func TestWithClientIP(t *testing.T) {
	testCases := []struct {
		name     string
		config   WithClientIPConfig
		headers  map[string]string
		expected string
		status   int
	}{
		{
			name:     "trusted header",
			config:   WithClientIPConfig{TrustedHeader: "X-Real-IP"},
			headers:  map[string]string{"X-Real-IP": "10.1.1.1", fiber.HeaderXForwardedFor: "1.1.1.1"},
			expected: "10.1.1.1",
			status:   fiber.StatusOK,
		},
		{
			name:     "invalid trusted header falls back to xff",
			config:   WithClientIPConfig{TrustedHeader: "X-Real-IP"},
			headers:  map[string]string{"X-Real-IP": "garbage", fiber.HeaderXForwardedFor: "1.1.1.1, 2.2.2.2"},
			expected: "1.1.1.1",
			status:   fiber.StatusOK,
		},
		{
			name:     "walk back trusted proxies",
			config:   WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}},
			headers:  map[string]string{fiber.HeaderXForwardedFor: "6.6.6.6, 3.3.3.3, 10.0.0.2, 10.0.0.1"},
			expected: "3.3.3.3",
			status:   fiber.StatusOK,
		},
		{
			name:     "all trusted proxies",
			config:   WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}},
			headers:  map[string]string{fiber.HeaderXForwardedFor: "10.0.0.2, 10.0.0.1"},
			expected: "10.0.0.2",
			status:   fiber.StatusOK,
		},
		{
			name:    "reject malformed",
			config:  WithClientIPConfig{EnableRejectMalformedRequest: true},
			headers: map[string]string{fiber.HeaderXForwardedFor: "1.1.1.1"},
			status:  fiber.StatusForbidden,
		},
		{
			name:     "direct request",
			config:   WithClientIPConfig{EnableRejectMalformedRequest: true},
			expected: "0.0.0.0",
			status:   fiber.StatusOK,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(WithClientIP(tc.config))
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)
			if tc.status != fiber.StatusOK {
				return
			}
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.expected+"|", string(body))
		})
	}
}

func TestWithRequestId(t *testing.T) {
	app := newApp(WithRequestId())

	t.Run("reuse header", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderXRequestID, "req-1")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "|req-1", string(body))
		assert.Equal(t, "req-1", resp.Header.Get(fiber.HeaderXRequestID))
	})
	t.Run("generate", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
	})
}
