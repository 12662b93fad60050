// Package memory is an in-process DistributorDataGateway for tests and local runs.
// Transactions are serialized and work on a copy of the committed state.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ datagateway.DistributorDataGateway = (*Repository)(nil)

var ErrTxAlreadyExists = errors.New("Transaction already exists. Call Commit() or Rollback() first.")

type state struct {
	distributors  map[string]entity.Distributor
	referredUsers map[string]entity.ReferredUser
}

func newState() *state {
	return &state{
		distributors:  make(map[string]entity.Distributor),
		referredUsers: make(map[string]entity.ReferredUser),
	}
}

func (s *state) clone() *state {
	c := &state{
		distributors:  make(map[string]entity.Distributor, len(s.distributors)),
		referredUsers: make(map[string]entity.ReferredUser, len(s.referredUsers)),
	}
	for k, v := range s.distributors {
		c.distributors[k] = v
	}
	for k, v := range s.referredUsers {
		c.referredUsers[k] = v
	}
	return c
}

type store struct {
	// writeMu serializes transactions and standalone writes.
	writeMu sync.Mutex
	// mu guards committed.
	mu        sync.RWMutex
	committed *state
}

type Repository struct {
	store *store
	// tx is the working copy of an open transaction, nil outside transactions.
	tx *state
}

func NewRepository() *Repository {
	return &Repository{
		store: &store{committed: newState()},
	}
}

func (r *Repository) BeginDistributorTx(ctx context.Context) (datagateway.DistributorDataGatewayWithTx, error) {
	if r.tx != nil {
		return nil, errors.WithStack(ErrTxAlreadyExists)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errs.Timeout), "failed to begin transaction")
	}
	r.store.writeMu.Lock()
	r.store.mu.RLock()
	working := r.store.committed.clone()
	r.store.mu.RUnlock()
	return &Repository{store: r.store, tx: working}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.Mark(err, errs.Timeout), "failed to commit transaction")
	}
	r.store.mu.Lock()
	r.store.committed = r.tx
	r.store.mu.Unlock()
	r.tx = nil
	r.store.writeMu.Unlock()
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	r.tx = nil
	r.store.writeMu.Unlock()
	return nil
}

// read runs fn against the transaction state or a read-locked committed state.
func (r *Repository) read(fn func(s *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.committed)
}

// write runs fn against the transaction state, or as its own all-or-nothing unit outside transactions.
func (r *Repository) write(fn func(s *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.writeMu.Lock()
	defer r.store.writeMu.Unlock()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	working := r.store.committed.clone()
	if err := fn(working); err != nil {
		return err
	}
	r.store.committed = working
	return nil
}

func (s *state) distributor(id string) (entity.Distributor, error) {
	d, ok := s.distributors[id]
	if !ok {
		return entity.Distributor{}, errors.Wrapf(errs.NotFound, "distributor %q", id)
	}
	return d, nil
}

func (r *Repository) GetDistributorByID(ctx context.Context, id string) (*entity.Distributor, error) {
	var result entity.Distributor
	err := r.read(func(s *state) (err error) {
		result, err = s.distributor(id)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &result, nil
}

func (r *Repository) findDistributor(match func(d entity.Distributor) bool) (*entity.Distributor, error) {
	var result *entity.Distributor
	_ = r.read(func(s *state) error {
		for _, d := range s.distributors {
			if match(d) {
				result = &d
				return nil
			}
		}
		return nil
	})
	if result == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return result, nil
}

func (r *Repository) GetDistributorByWallet(ctx context.Context, walletAddress string) (*entity.Distributor, error) {
	return r.findDistributor(func(d entity.Distributor) bool { return d.WalletAddress == walletAddress })
}

func (r *Repository) GetDistributorByReferralCode(ctx context.Context, referralCode string) (*entity.Distributor, error) {
	return r.findDistributor(func(d entity.Distributor) bool { return d.ReferralCode == referralCode })
}

func (r *Repository) filterDistributors(match func(d entity.Distributor) bool) []entity.Distributor {
	var result []entity.Distributor
	_ = r.read(func(s *state) error {
		result = lo.Filter(lo.Values(s.distributors), func(d entity.Distributor, _ int) bool { return match(d) })
		return nil
	})
	slices.SortFunc(result, func(a, b entity.Distributor) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

func (r *Repository) GetDistributors(ctx context.Context, arg datagateway.GetDistributorsParams) ([]entity.Distributor, error) {
	return r.filterDistributors(func(d entity.Distributor) bool {
		return arg.Status == nil || d.Status == *arg.Status
	}), nil
}

func (r *Repository) GetDistributorsByUpline(ctx context.Context, uplineID string) ([]entity.Distributor, error) {
	return r.filterDistributors(func(d entity.Distributor) bool {
		return d.UplineID != "" && d.UplineID == uplineID
	}), nil
}

func (r *Repository) CreateDistributor(ctx context.Context, arg entity.Distributor) error {
	if err := arg.Validate(); err != nil {
		return errors.Mark(err, errs.InvalidArgument)
	}
	return r.write(func(s *state) error {
		for _, d := range s.distributors {
			switch {
			case d.ID == arg.ID:
				return errors.Wrapf(errs.Conflict, "distributor id %q already exists", arg.ID)
			case d.WalletAddress == arg.WalletAddress:
				return errors.Wrapf(errs.Conflict, "wallet address %q already registered", arg.WalletAddress)
			case d.ReferralCode == arg.ReferralCode:
				return errors.Wrapf(errs.Conflict, "referral code %q already taken", arg.ReferralCode)
			}
		}
		s.distributors[arg.ID] = arg
		return nil
	})
}

func (r *Repository) updateDistributor(id string, fn func(d *entity.Distributor) error) error {
	return r.write(func(s *state) error {
		d, err := s.distributor(id)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := fn(&d); err != nil {
			return errors.WithStack(err)
		}
		s.distributors[id] = d
		return nil
	})
}

func (r *Repository) UpdateDistributorStatus(ctx context.Context, id string, status entity.Status) error {
	return r.updateDistributor(id, func(d *entity.Distributor) error {
		d.Status = status
		return nil
	})
}

func (r *Repository) IncrementPoints(ctx context.Context, arg datagateway.IncrementPointsParams) error {
	return r.updateDistributor(arg.ID, func(d *entity.Distributor) error {
		personal, err := entity.AddPointsChecked(d.PersonalPoints, arg.PersonalDelta)
		if err != nil {
			return errors.WithStack(err)
		}
		commission, err := entity.AddPointsChecked(d.CommissionPoints, arg.CommissionDelta)
		if err != nil {
			return errors.WithStack(err)
		}
		total, err := entity.AddPointsChecked(personal, commission)
		if err != nil {
			return errors.WithStack(err)
		}
		d.PersonalPoints, d.CommissionPoints, d.TotalPoints = personal, commission, total
		return nil
	})
}

// LockReferralGraph is a no-op, transactions are already serialized.
func (r *Repository) LockReferralGraph(ctx context.Context) error {
	return nil
}

func (r *Repository) UpdateUpline(ctx context.Context, id string, uplineID string) error {
	return r.updateDistributor(id, func(d *entity.Distributor) error {
		d.UplineID = uplineID
		return nil
	})
}

func (r *Repository) ClearUplineForChildren(ctx context.Context, id string) (int64, error) {
	var affected int64
	err := r.write(func(s *state) error {
		for childID, d := range s.distributors {
			if d.UplineID == id {
				d.UplineID = ""
				s.distributors[childID] = d
				affected++
			}
		}
		return nil
	})
	return affected, errors.WithStack(err)
}

func (r *Repository) DeleteDistributor(ctx context.Context, id string) error {
	return r.write(func(s *state) error {
		if _, err := s.distributor(id); err != nil {
			return errors.WithStack(err)
		}
		delete(s.distributors, id)
		for userID, u := range s.referredUsers {
			if u.DistributorID == id {
				delete(s.referredUsers, userID)
			}
		}
		return nil
	})
}

func (r *Repository) CreateReferredUser(ctx context.Context, arg entity.ReferredUser) error {
	if err := arg.Validate(); err != nil {
		return errors.Mark(err, errs.InvalidArgument)
	}
	return r.write(func(s *state) error {
		if _, err := s.distributor(arg.DistributorID); err != nil {
			return errors.WithStack(err)
		}
		for _, u := range s.referredUsers {
			if u.ID == arg.ID || u.Address == arg.Address {
				return errors.Wrapf(errs.Conflict, "referred user %q already exists", arg.Address)
			}
		}
		s.referredUsers[arg.ID] = arg
		return nil
	})
}

func (r *Repository) GetReferredUserByAddress(ctx context.Context, address string) (*entity.ReferredUser, error) {
	var result *entity.ReferredUser
	_ = r.read(func(s *state) error {
		for _, u := range s.referredUsers {
			if u.Address == address {
				result = &u
				return nil
			}
		}
		return nil
	})
	if result == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return result, nil
}

func (r *Repository) filterReferredUsers(match func(s *state, u entity.ReferredUser) bool) []entity.ReferredUser {
	var result []entity.ReferredUser
	_ = r.read(func(s *state) error {
		for _, u := range s.referredUsers {
			if match(s, u) {
				result = append(result, u)
			}
		}
		return nil
	})
	slices.SortFunc(result, func(a, b entity.ReferredUser) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

func (r *Repository) GetReferredUsersByDistributor(ctx context.Context, distributorID string) ([]entity.ReferredUser, error) {
	return r.filterReferredUsers(func(_ *state, u entity.ReferredUser) bool {
		return u.DistributorID == distributorID
	}), nil
}

func (r *Repository) GetSnapshotCandidates(ctx context.Context, minBalance decimal.Decimal) ([]entity.ReferredUser, error) {
	return r.filterReferredUsers(func(s *state, u entity.ReferredUser) bool {
		d, ok := s.distributors[u.DistributorID]
		return ok && d.IsApproved() && u.WusdBalance.GreaterThan(minBalance)
	}), nil
}

func (r *Repository) updateReferredUser(match func(u entity.ReferredUser) bool, fn func(u *entity.ReferredUser) error) error {
	return r.write(func(s *state) error {
		for id, u := range s.referredUsers {
			if match(u) {
				if err := fn(&u); err != nil {
					return errors.WithStack(err)
				}
				s.referredUsers[id] = u
				return nil
			}
		}
		return errors.WithStack(errs.NotFound)
	})
}

func (r *Repository) UpdateReferredUserBalance(ctx context.Context, arg datagateway.UpdateReferredUserBalanceParams) error {
	return r.updateReferredUser(
		func(u entity.ReferredUser) bool { return u.Address == arg.Address },
		func(u *entity.ReferredUser) error {
			u.WusdBalance = arg.WusdBalance
			return nil
		},
	)
}

func (r *Repository) IncrementReferredUserPointsEarned(ctx context.Context, id string, delta int64) error {
	return r.updateReferredUser(
		func(u entity.ReferredUser) bool { return u.ID == id },
		func(u *entity.ReferredUser) (err error) {
			u.PointsEarned, err = entity.AddPointsChecked(u.PointsEarned, delta)
			return errors.WithStack(err)
		},
	)
}
