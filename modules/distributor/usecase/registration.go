package usecase

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
)

var referralCodeCharset = append(append([]rune{}, lo.UpperCaseLettersCharset...), lo.NumbersCharset...)

func (u *Usecase) newDistributor(wallet string, role entity.Role, roleType entity.RoleType, status entity.Status) entity.Distributor {
	now := u.now().UTC()
	return entity.Distributor{
		ID:               uuid.NewString(),
		WalletAddress:    wallet,
		ReferralCode:     lo.RandomString(referralCodeLength, referralCodeCharset),
		Role:             role,
		RoleType:         roleType,
		Status:           status,
		CreatedAt:        now,
		RegistrationDate: now.Format(entity.RegistrationDateLayout),
	}
}

// createDistributor inserts d, drawing a new referral code when the current one is taken.
func createDistributor(ctx context.Context, dg datagateway.DistributorDataGateway, d *entity.Distributor) error {
	if _, err := dg.GetDistributorByWallet(ctx, d.WalletAddress); err == nil {
		return errs.NewPublicError(errs.Conflict, "wallet address is already registered")
	} else if !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to check wallet address")
	}
	for attempt := 1; ; attempt++ {
		if _, err := dg.GetDistributorByReferralCode(ctx, d.ReferralCode); err == nil {
			if attempt == referralCodeAttempts {
				return errors.Wrap(errs.Conflict, "failed to generate a unique referral code")
			}
			d.ReferralCode = lo.RandomString(referralCodeLength, referralCodeCharset)
			continue
		} else if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to check referral code")
		}
		break
	}
	if err := dg.CreateDistributor(ctx, *d); err != nil {
		return errors.Wrap(err, "failed to create distributor")
	}
	return nil
}

func (u *Usecase) register(ctx context.Context, d *entity.Distributor, fn func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error) (*entity.Distributor, error) {
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		if err := createDistributor(ctx, dg, d); err != nil {
			return errors.WithStack(err)
		}
		if fn != nil {
			return fn(ctx, dg)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.InfoContext(ctx, "registered distributor",
		slog.String("event", "distributor_registered"),
		slog.String("distributorId", d.ID),
		slog.String("roleType", string(d.RoleType)),
		slog.String("status", string(d.Status)),
	)
	return d, nil
}

// RegisterCaptain registers a wallet as a root captain waiting for admin approval.
func (u *Usecase) RegisterCaptain(ctx context.Context, walletAddress string) (*entity.Distributor, error) {
	wallet, err := entity.NormalizeWalletAddress(walletAddress)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	d := u.newDistributor(wallet, entity.RoleDistributor, entity.RoleTypeCaptain, entity.StatusPending)
	result, err := u.register(ctx, &d, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register captain")
	}
	return result, nil
}

// RegisterCrew registers a wallet under the approved distributor owning referralCode.
func (u *Usecase) RegisterCrew(ctx context.Context, walletAddress string, referralCode string) (*entity.Distributor, error) {
	wallet, err := entity.NormalizeWalletAddress(walletAddress)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if referralCode == "" {
		return nil, errs.NewPublicError(errs.InvalidArgument, "referral code is required")
	}
	d := u.newDistributor(wallet, entity.RoleDistributor, entity.RoleTypeCrew, entity.StatusApproved)
	result, err := u.register(ctx, &d, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		referrer, err := dg.GetDistributorByReferralCode(ctx, referralCode)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				return errs.NewPublicError(errs.NotFound, "referral code not found")
			}
			return errors.Wrap(err, "failed to get referrer")
		}
		if err := assignUpline(ctx, dg, d.ID, referrer.ID); err != nil {
			return errors.WithStack(err)
		}
		d.UplineID = referrer.ID
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register crew")
	}
	return result, nil
}

// CreateAdmin registers an approved admin wallet.
func (u *Usecase) CreateAdmin(ctx context.Context, walletAddress string) (*entity.Distributor, error) {
	wallet, err := entity.NormalizeWalletAddress(walletAddress)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	d := u.newDistributor(wallet, entity.RoleAdmin, entity.RoleTypeAdmin, entity.StatusApproved)
	result, err := u.register(ctx, &d, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create admin")
	}
	return result, nil
}

// ApproveDistributor approves a pending distributor, optionally linking it under uplineID.
func (u *Usecase) ApproveDistributor(ctx context.Context, distributorID string, uplineID string) (*entity.Distributor, error) {
	d, err := u.transition(ctx, distributorID, entity.StatusApproved, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		if uplineID == "" {
			return nil
		}
		return assignUpline(ctx, dg, distributorID, uplineID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to approve distributor")
	}
	return d, nil
}

// RejectDistributor rejects a pending distributor.
func (u *Usecase) RejectDistributor(ctx context.Context, distributorID string) (*entity.Distributor, error) {
	d, err := u.transition(ctx, distributorID, entity.StatusRejected, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reject distributor")
	}
	return d, nil
}

func (u *Usecase) transition(ctx context.Context, distributorID string, status entity.Status, fn txFunc) (*entity.Distributor, error) {
	var result *entity.Distributor
	err := u.withTx(ctx, func(ctx context.Context, dg datagateway.DistributorDataGatewayWithTx) error {
		d, err := dg.GetDistributorByID(ctx, distributorID)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				return errs.NewPublicError(errs.NotFound, "distributor not found")
			}
			return errors.Wrap(err, "failed to get distributor")
		}
		if d.Status != entity.StatusPending {
			return errs.NewPublicError(errs.InvalidArgument, "only pending distributors can be approved or rejected")
		}
		if err := dg.UpdateDistributorStatus(ctx, distributorID, status); err != nil {
			return errors.WithStack(err)
		}
		if fn != nil {
			if err := fn(ctx, dg); err != nil {
				return errors.WithStack(err)
			}
		}
		result, err = dg.GetDistributorByID(ctx, distributorID)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.InfoContext(ctx, "distributor status changed",
		slog.String("event", "distributor_"+string(status)),
		slog.String("distributorId", distributorID),
	)
	return result, nil
}
