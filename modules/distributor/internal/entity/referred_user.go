package entity

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// ReferredUser is an external wallet whose balance generates points for its direct referrer.
type ReferredUser struct {
	ID            string
	Address       string
	DistributorID string
	WusdBalance   decimal.Decimal

	// PointsEarned is informational; the distributor counters are authoritative.
	PointsEarned int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u ReferredUser) Validate() error {
	var errList []error
	if u.ID == "" {
		errList = append(errList, errors.New("id is empty"))
	}
	if u.Address == "" {
		errList = append(errList, errors.New("address is empty"))
	}
	if u.DistributorID == "" {
		errList = append(errList, errors.New("distributor id is empty"))
	}
	if u.WusdBalance.IsNegative() {
		errList = append(errList, errors.Newf("negative wusd balance %s", u.WusdBalance))
	}
	if u.PointsEarned < 0 {
		errList = append(errList, errors.Newf("negative points earned %d", u.PointsEarned))
	}
	if err := errors.Join(errList...); err != nil {
		return errors.Wrapf(err, "invalid referred user %q", u.ID)
	}
	return nil
}
