package gen

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

func scanDistributors(rows pgx.Rows) ([]Distributor, error) {
	var items []Distributor
	for rows.Next() {
		var i Distributor
		if err := rows.Scan(
			&i.ID,
			&i.WalletAddress,
			&i.ReferralCode,
			&i.Role,
			&i.RoleType,
			&i.Status,
			&i.PersonalPoints,
			&i.CommissionPoints,
			&i.TotalPoints,
			&i.UplineDistributorID,
			&i.CreatedAt,
			&i.RegistrationDate,
		); err != nil {
			return nil, errors.WithStack(err)
		}
		items = append(items, i)
	}
	return items, errors.WithStack(rows.Err())
}

func scanReferredUsers(rows pgx.Rows) ([]ReferredUser, error) {
	var items []ReferredUser
	for rows.Next() {
		var i ReferredUser
		if err := rows.Scan(
			&i.ID,
			&i.Address,
			&i.DistributorID,
			&i.WusdBalance,
			&i.PointsEarned,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, errors.WithStack(err)
		}
		items = append(items, i)
	}
	return items, errors.WithStack(rows.Err())
}
