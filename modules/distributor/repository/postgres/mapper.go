package postgres

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/modules/distributor/repository/postgres/gen"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func textFromString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func decimalFromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Decimal{}, errors.New("numeric is null")
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, errors.New("numeric is not a finite number")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func mapDistributorModelToType(src gen.Distributor) (*entity.Distributor, error) {
	if !src.CreatedAt.Valid {
		return nil, errors.Errorf("distributor %q has null created_at", src.ID)
	}
	d := entity.Distributor{
		ID:               src.ID,
		WalletAddress:    src.WalletAddress,
		ReferralCode:     src.ReferralCode,
		Role:             entity.Role(src.Role),
		RoleType:         entity.RoleType(src.RoleType),
		Status:           entity.Status(src.Status),
		PersonalPoints:   src.PersonalPoints,
		CommissionPoints: src.CommissionPoints,
		TotalPoints:      src.TotalPoints,
		UplineID:         src.UplineDistributorID.String,
		CreatedAt:        src.CreatedAt.Time,
		RegistrationDate: src.RegistrationDate,
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errs.Storage), "malformed distributor row")
	}
	return &d, nil
}

func mapDistributorModelsToTypes(src []gen.Distributor) ([]entity.Distributor, error) {
	result := make([]entity.Distributor, 0, len(src))
	for _, model := range src {
		d, err := mapDistributorModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		result = append(result, *d)
	}
	return result, nil
}

func mapDistributorTypeToParams(src entity.Distributor) gen.CreateDistributorParams {
	return gen.CreateDistributorParams{
		ID:                  src.ID,
		WalletAddress:       src.WalletAddress,
		ReferralCode:        src.ReferralCode,
		Role:                string(src.Role),
		RoleType:            string(src.RoleType),
		Status:              string(src.Status),
		PersonalPoints:      src.PersonalPoints,
		CommissionPoints:    src.CommissionPoints,
		TotalPoints:         src.TotalPoints,
		UplineDistributorID: textFromString(src.UplineID),
		CreatedAt:           pgtype.Timestamptz{Time: src.CreatedAt, Valid: true},
		RegistrationDate:    src.RegistrationDate,
	}
}

func mapReferredUserModelToType(src gen.ReferredUser) (*entity.ReferredUser, error) {
	balance, err := decimalFromNumeric(src.WusdBalance)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed wusd balance of referred user %q", src.ID)
	}
	u := entity.ReferredUser{
		ID:            src.ID,
		Address:       src.Address,
		DistributorID: src.DistributorID,
		WusdBalance:   balance,
		PointsEarned:  src.PointsEarned,
		CreatedAt:     src.CreatedAt.Time,
		UpdatedAt:     src.UpdatedAt.Time,
	}
	if err := u.Validate(); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errs.Storage), "malformed referred user row")
	}
	return &u, nil
}

func mapReferredUserModelsToTypes(src []gen.ReferredUser) ([]entity.ReferredUser, error) {
	result := make([]entity.ReferredUser, 0, len(src))
	for _, model := range src {
		u, err := mapReferredUserModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		result = append(result, *u)
	}
	return result, nil
}

func mapReferredUserTypeToParams(src entity.ReferredUser) gen.CreateReferredUserParams {
	return gen.CreateReferredUserParams{
		ID:            src.ID,
		Address:       src.Address,
		DistributorID: src.DistributorID,
		WusdBalance:   numericFromDecimal(src.WusdBalance),
		PointsEarned:  src.PointsEarned,
		CreatedAt:     pgtype.Timestamptz{Time: src.CreatedAt, Valid: true},
		UpdatedAt:     pgtype.Timestamptz{Time: src.UpdatedAt, Valid: true},
	}
}
