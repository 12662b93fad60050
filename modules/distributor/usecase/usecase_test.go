package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/config"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/modules/distributor/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		Storage: "memory",
		Points:  config.DefaultPointsConfig(),
		Snapshot: config.SnapshotConfig{
			Concurrency: 4,
			TxTimeout:   5 * time.Second,
		},
	}
}

type fixture struct {
	t    *testing.T
	ctx  context.Context
	repo *memory.Repository
	uc   *Usecase
	seq  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewRepository()
	return &fixture{
		t:    t,
		ctx:  context.Background(),
		repo: repo,
		uc:   New(repo, testConfig(), WithClock(func() time.Time { return testNow })),
	}
}

// withFailure swaps the usecase datagateway for one that fails writes to failOn.
func (f *fixture) withFailure(failOn string) {
	f.uc.distributorDg = failingDataGateway{DistributorDataGateway: f.repo, failOn: failOn}
}

// addDistributor inserts an approved captain-or-crew row with a fixed id, bypassing registration.
func (f *fixture) addDistributor(id string, uplineID string, mutate ...func(d *entity.Distributor)) {
	f.t.Helper()
	f.seq++
	d := entity.Distributor{
		ID:               id,
		WalletAddress:    fmt.Sprintf("0x%040x", f.seq),
		ReferralCode:     "CODE" + strings.ToUpper(id),
		Role:             entity.RoleDistributor,
		RoleType:         entity.RoleTypeCrew,
		Status:           entity.StatusApproved,
		UplineID:         uplineID,
		CreatedAt:        testNow.Add(time.Duration(f.seq) * time.Minute),
		RegistrationDate: testNow.Format(entity.RegistrationDateLayout),
	}
	if uplineID == "" {
		d.RoleType = entity.RoleTypeCaptain
	}
	for _, m := range mutate {
		m(&d)
	}
	require.NoError(f.t, f.repo.CreateDistributor(f.ctx, d))
}

// addChain inserts ids as a chain where every id is the upline of the previous one. The last id is the root.
func (f *fixture) addChain(ids ...string) {
	f.t.Helper()
	for i := len(ids) - 1; i >= 0; i-- {
		upline := ""
		if i+1 < len(ids) {
			upline = ids[i+1]
		}
		f.addDistributor(ids[i], upline)
	}
}

func (f *fixture) get(id string) entity.Distributor {
	f.t.Helper()
	d, err := f.repo.GetDistributorByID(f.ctx, id)
	require.NoError(f.t, err)
	return *d
}

// points returns personal and commission points of a distributor.
func (f *fixture) points(id string) (int64, int64) {
	f.t.Helper()
	d := f.get(id)
	return d.PersonalPoints, d.CommissionPoints
}

func (f *fixture) assertPoints(id string, personal int64, commission int64) {
	f.t.Helper()
	d := f.get(id)
	assert.Equal(f.t, personal, d.PersonalPoints, "personal points of %s", id)
	assert.Equal(f.t, commission, d.CommissionPoints, "commission points of %s", id)
	assert.Equal(f.t, d.PersonalPoints+d.CommissionPoints, d.TotalPoints, "total points of %s", id)
}

func (f *fixture) assertTotalsConsistent() {
	f.t.Helper()
	all, err := f.repo.GetDistributors(f.ctx, datagateway.GetDistributorsParams{})
	require.NoError(f.t, err)
	for _, d := range all {
		assert.Equal(f.t, d.PersonalPoints+d.CommissionPoints, d.TotalPoints, "total points of %s", d.ID)
	}
}

var errSimulated = errors.Mark(errors.New("simulated storage failure"), errs.Storage)

type failingDataGateway struct {
	datagateway.DistributorDataGateway
	failOn string
}

func (f failingDataGateway) BeginDistributorTx(ctx context.Context) (datagateway.DistributorDataGatewayWithTx, error) {
	tx, err := f.DistributorDataGateway.BeginDistributorTx(ctx)
	if err != nil {
		return nil, err
	}
	return failingTx{DistributorDataGatewayWithTx: tx, failOn: f.failOn}, nil
}

type failingTx struct {
	datagateway.DistributorDataGatewayWithTx
	failOn string
}

func (f failingTx) IncrementPoints(ctx context.Context, arg datagateway.IncrementPointsParams) error {
	if arg.ID == f.failOn {
		return errors.WithStack(errSimulated)
	}
	return f.DistributorDataGatewayWithTx.IncrementPoints(ctx, arg)
}
