package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gaze-network/distributor-network/modules/distributor/config"
	"github.com/gaze-network/distributor-network/modules/distributor/repository/memory"
	"github.com/gaze-network/distributor-network/modules/distributor/usecase"
	"github.com/gaze-network/distributor-network/pkg/errorhandler"
	"github.com/gaze-network/distributor-network/pkg/middleware/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	captainWallet = "0x52908400098527886E0F7030069857D2E4169EE7"
	crewWallet    = "0x1111111111111111111111111111111111111111"
	userWallet    = "0x3333333333333333333333333333333333333333"
)

type testServer struct {
	t             *testing.T
	app           *fiber.App
	authenticator *auth.Authenticator
	uc            *usecase.Usecase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	authenticator, err := auth.NewAuthenticator(auth.Config{HMACSecret: "test-secret"})
	require.NoError(t, err)

	uc := usecase.New(memory.NewRepository(), config.Config{
		Points:   config.DefaultPointsConfig(),
		Snapshot: config.SnapshotConfig{Concurrency: 2, TxTimeout: 5 * time.Second},
	})
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, New(uc, authenticator).Mount(app))
	return &testServer{t: t, app: app, authenticator: authenticator, uc: uc}
}

func (s *testServer) token(distributorID string, role string) string {
	s.t.Helper()
	token, err := s.authenticator.Sign(auth.Identity{DistributorID: distributorID, Role: role}, time.Hour)
	require.NoError(s.t, err)
	return token
}

// do sends a request and decodes the JSON body into out when given.
func (s *testServer) do(method string, path string, token string, body any, out any) int {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRegistrationFlow(t *testing.T) {
	s := newTestServer(t)
	admin, err := s.uc.CreateAdmin(context.Background(), "0x2222222222222222222222222222222222222222")
	require.NoError(t, err)
	adminToken := s.token(admin.ID, auth.RoleAdmin)

	var captain registerResponse
	status := s.do(fiber.MethodPost, "/v1/distributors/captains", "", fiber.Map{"walletAddress": captainWallet}, &captain)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotNil(t, captain.Result)
	assert.Equal(t, "pending", captain.Result.Status)
	assert.Nil(t, captain.Result.UplineDistributorId)
	captainToken := s.token(captain.Result.Id, auth.RoleDistributor)

	t.Run("duplicate wallet", func(t *testing.T) {
		var resp HttpResponse[any]
		status := s.do(fiber.MethodPost, "/v1/distributors/captains", "", fiber.Map{"walletAddress": captainWallet}, &resp)
		assert.Equal(t, fiber.StatusConflict, status)
		require.NotNil(t, resp.Error)
	})
	t.Run("invalid wallet", func(t *testing.T) {
		status := s.do(fiber.MethodPost, "/v1/distributors/captains", "", fiber.Map{"walletAddress": "nope"}, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
	t.Run("crew cannot join a pending captain", func(t *testing.T) {
		status := s.do(fiber.MethodPost, "/v1/distributors/crew", "", fiber.Map{"walletAddress": crewWallet, "referralCode": captain.Result.ReferralCode}, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
	t.Run("only admins approve", func(t *testing.T) {
		status := s.do(fiber.MethodPost, "/v1/admin/distributors/"+captain.Result.Id+"/approve", captainToken, nil, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		status = s.do(fiber.MethodPost, "/v1/admin/distributors/"+captain.Result.Id+"/approve", "", nil, nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	var approved distributorResponse
	status = s.do(fiber.MethodPost, "/v1/admin/distributors/"+captain.Result.Id+"/approve", adminToken, nil, &approved)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "approved", approved.Result.Status)

	var crew registerResponse
	status = s.do(fiber.MethodPost, "/v1/distributors/crew", "", fiber.Map{"walletAddress": crewWallet, "referralCode": captain.Result.ReferralCode}, &crew)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotNil(t, crew.Result.UplineDistributorId)
	assert.Equal(t, captain.Result.Id, *crew.Result.UplineDistributorId)
	crewToken := s.token(crew.Result.Id, auth.RoleDistributor)

	t.Run("distributors cannot mint their own points", func(t *testing.T) {
		status := s.do(fiber.MethodPost, "/v1/distributors/"+crew.Result.Id+"/points", crewToken, fiber.Map{"amount": 1000}, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		status = s.do(fiber.MethodPost, "/v1/distributors/"+captain.Result.Id+"/points", crewToken, fiber.Map{"amount": 1000}, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		status = s.do(fiber.MethodPost, "/v1/distributors/"+crew.Result.Id+"/points", "", fiber.Map{"amount": 1000}, nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)

		var me getMeResponse
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodGet, "/v1/me", crewToken, nil, &me))
		assert.Equal(t, int64(0), me.Result.TotalPoints)
	})
	t.Run("add points pays the direct upline", func(t *testing.T) {
		var result operationResponse
		status := s.do(fiber.MethodPost, "/v1/distributors/"+crew.Result.Id+"/points", adminToken, fiber.Map{"amount": 1000}, &result)
		require.Equal(t, fiber.StatusOK, status)
		assert.True(t, result.Result.Success)

		var me getMeResponse
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodGet, "/v1/me", captainToken, nil, &me))
		assert.Equal(t, int64(100), me.Result.CommissionPoints)
		assert.Equal(t, int64(100), me.Result.TotalPoints)
	})
	t.Run("downline", func(t *testing.T) {
		var downline getMyDownlineResponse
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodGet, "/v1/me/downline", captainToken, nil, &downline))
		require.Len(t, downline.Result.List, 1)
		assert.Equal(t, crew.Result.Id, downline.Result.List[0].Id)
	})
	t.Run("referred users and snapshot", func(t *testing.T) {
		var user addMyReferredUserResponse
		require.Equal(t, fiber.StatusCreated, s.do(fiber.MethodPost, "/v1/me/referred-users", crewToken, fiber.Map{"address": userWallet}, &user))

		status := s.do(fiber.MethodPut, "/v1/admin/referred-users/"+user.Result.Address+"/balance", adminToken, fiber.Map{"wusdBalance": "500"}, nil)
		require.Equal(t, fiber.StatusOK, status)

		var snapshot runSnapshotResponse
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodPost, "/v1/admin/snapshot", adminToken, nil, &snapshot))
		assert.Equal(t, 1, snapshot.Result.ProcessedCount)

		var got getDistributorResponse
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodGet, "/v1/distributors/"+crew.Result.ReferralCode, "", nil, &got))
		assert.Equal(t, int64(1500), got.Result.PersonalPoints)
	})
	t.Run("rankings", func(t *testing.T) {
		var rankings getRankingsResponse
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodGet, "/v1/rankings?limit=2", "", nil, &rankings))
		require.Len(t, rankings.Result.List, 2)
		assert.Equal(t, crew.Result.Id, rankings.Result.List[0].Id)
		require.NotNil(t, rankings.Result.List[0].Rank)
		assert.Equal(t, 1, *rankings.Result.List[0].Rank)

		status := s.do(fiber.MethodGet, "/v1/rankings?limit=-1", "", nil, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
	t.Run("delete captain detaches crew", func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodDelete, "/v1/admin/distributors/"+captain.Result.Id, adminToken, nil, nil))

		var got getDistributorResponse
		require.Equal(t, fiber.StatusOK, s.do(fiber.MethodGet, "/v1/distributors/"+crew.Result.Id, "", nil, &got))
		assert.Nil(t, got.Result.UplineDistributorId)

		status := s.do(fiber.MethodGet, "/v1/distributors/"+captain.Result.Id, "", nil, nil)
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestAdminAddPoints(t *testing.T) {
	s := newTestServer(t)
	admin, err := s.uc.CreateAdmin(context.Background(), "0x2222222222222222222222222222222222222222")
	require.NoError(t, err)
	adminToken := s.token(admin.ID, auth.RoleAdmin)

	var result operationResponse
	status := s.do(fiber.MethodPost, "/v1/admin/distributors/"+admin.ID+"/points", adminToken, fiber.Map{"amount": 10, "kind": "commission"}, &result)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, result.Result.Success)

	status = s.do(fiber.MethodPost, "/v1/admin/distributors/"+admin.ID+"/points", adminToken, fiber.Map{"amount": 10, "kind": "bonus"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = s.do(fiber.MethodPost, "/v1/admin/distributors/missing/points", adminToken, fiber.Map{"amount": 10}, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
