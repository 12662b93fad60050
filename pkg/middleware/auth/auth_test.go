package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(Config{HMACSecret: "test-secret", Issuer: "distributor-network"})
	require.NoError(t, err)
	return a
}

func TestNewAuthenticator(t *testing.T) {
	_, err := NewAuthenticator(Config{})
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestVerify(t *testing.T) {
	a := newTestAuthenticator(t)

	t.Run("roundtrip", func(t *testing.T) {
		token, err := a.Sign(Identity{DistributorID: "d-1", Role: RoleAdmin}, time.Hour)
		require.NoError(t, err)

		id, err := a.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "d-1", id.DistributorID)
		assert.True(t, id.IsAdmin())
	})
	t.Run("expired", func(t *testing.T) {
		token, err := a.Sign(Identity{DistributorID: "d-1", Role: RoleDistributor}, -time.Hour)
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.Error(t, err)
	})
	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewAuthenticator(Config{HMACSecret: "other-secret", Issuer: "distributor-network"})
		require.NoError(t, err)
		token, err := other.Sign(Identity{DistributorID: "d-1", Role: RoleDistributor}, time.Hour)
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.Error(t, err)
	})
	t.Run("unknown role", func(t *testing.T) {
		token, err := a.Sign(Identity{DistributorID: "d-1", Role: "root"}, time.Hour)
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.Error(t, err)
	})
	t.Run("missing subject", func(t *testing.T) {
		token, err := a.Sign(Identity{Role: RoleDistributor}, time.Hour)
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator(t)
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	app.Get("/me", a.New(), func(c *fiber.Ctx) error {
		id, ok := FromContext(c.UserContext())
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(id.DistributorID)
	})
	app.Get("/admin", a.New(RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	distributorToken, err := a.Sign(Identity{DistributorID: "d-1", Role: RoleDistributor}, time.Hour)
	require.NoError(t, err)
	adminToken, err := a.Sign(Identity{DistributorID: "admin-1", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		path     string
		header   string
		expected int
	}{
		{name: "no token", path: "/me", expected: fiber.StatusUnauthorized},
		{name: "malformed header", path: "/me", header: "Token abc", expected: fiber.StatusUnauthorized},
		{name: "invalid token", path: "/me", header: "Bearer abc", expected: fiber.StatusUnauthorized},
		{name: "distributor", path: "/me", header: "Bearer " + distributorToken, expected: fiber.StatusOK},
		{name: "distributor on admin route", path: "/admin", header: "Bearer " + distributorToken, expected: fiber.StatusForbidden},
		{name: "admin", path: "/admin", header: "bearer " + adminToken, expected: fiber.StatusNoContent},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, resp.StatusCode)
		})
	}
}
