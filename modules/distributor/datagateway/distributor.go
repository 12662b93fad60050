package datagateway

import (
	"context"

	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/shopspring/decimal"
)

// DistributorDataGateway is the storage boundary of the distributor module.
// Lookups return errs.NotFound when no row matches and writes on unique keys return errs.Conflict.
type DistributorDataGateway interface {
	DistributorReaderDataGateway
	DistributorWriterDataGateway
	ReferredUserDataGateway

	BeginDistributorTx(ctx context.Context) (DistributorDataGatewayWithTx, error)
}

type DistributorDataGatewayWithTx interface {
	DistributorDataGateway
	Tx
}

type DistributorReaderDataGateway interface {
	GetDistributorByID(ctx context.Context, id string) (*entity.Distributor, error)
	GetDistributorByWallet(ctx context.Context, walletAddress string) (*entity.Distributor, error)
	GetDistributorByReferralCode(ctx context.Context, referralCode string) (*entity.Distributor, error)
	GetDistributors(ctx context.Context, arg GetDistributorsParams) ([]entity.Distributor, error)
	GetDistributorsByUpline(ctx context.Context, uplineID string) ([]entity.Distributor, error)
}

type DistributorWriterDataGateway interface {
	CreateDistributor(ctx context.Context, arg entity.Distributor) error
	UpdateDistributorStatus(ctx context.Context, id string, status entity.Status) error

	// IncrementPoints atomically adds the deltas to the counters and to total points.
	IncrementPoints(ctx context.Context, arg IncrementPointsParams) error

	// LockReferralGraph serializes upline mutations until the end of the current transaction.
	LockReferralGraph(ctx context.Context) error
	// UpdateUpline sets the upline of a distributor. An empty uplineID clears it.
	UpdateUpline(ctx context.Context, id string, uplineID string) error
	// ClearUplineForChildren clears the upline of every direct child of id and returns the affected count.
	ClearUplineForChildren(ctx context.Context, id string) (int64, error)
	DeleteDistributor(ctx context.Context, id string) error
}

type ReferredUserDataGateway interface {
	CreateReferredUser(ctx context.Context, arg entity.ReferredUser) error
	GetReferredUserByAddress(ctx context.Context, address string) (*entity.ReferredUser, error)
	GetReferredUsersByDistributor(ctx context.Context, distributorID string) ([]entity.ReferredUser, error)
	// GetSnapshotCandidates returns referred users with a balance above minBalance whose referrer is approved.
	GetSnapshotCandidates(ctx context.Context, minBalance decimal.Decimal) ([]entity.ReferredUser, error)
	UpdateReferredUserBalance(ctx context.Context, arg UpdateReferredUserBalanceParams) error
	IncrementReferredUserPointsEarned(ctx context.Context, id string, delta int64) error
}

type GetDistributorsParams struct {
	// Status filters by status when set.
	Status *entity.Status
}

type IncrementPointsParams struct {
	ID              string
	PersonalDelta   int64
	CommissionDelta int64
}

type UpdateReferredUserBalanceParams struct {
	Address     string
	WusdBalance decimal.Decimal
}
