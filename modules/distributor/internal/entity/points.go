package entity

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/shopspring/decimal"
)

var maxPoints = decimal.NewFromInt(math.MaxInt64)

type PointKind string

const (
	PointKindPersonal   PointKind = "personal"
	PointKindCommission PointKind = "commission"
)

func (k PointKind) IsValid() bool {
	return k == PointKindPersonal || k == PointKindCommission
}

// Credit is one counter increment applied during a point-earning event.
// Level is 0 for the source distributor and N for its N-th upline.
type Credit struct {
	DistributorID string
	Amount        int64
	Kind          PointKind
	Level         int
}

// FloorPoints returns floor(amount * rate) as whole points.
// A result outside the int64 range is an errs.InvalidArgument.
func FloorPoints(amount decimal.Decimal, rate decimal.Decimal) (int64, error) {
	points := amount.Mul(rate).Floor()
	if points.GreaterThan(maxPoints) || points.LessThan(maxPoints.Neg()) {
		return 0, errors.Wrapf(errs.InvalidArgument, "floor(%s * %s) exceeds the points range", amount, rate)
	}
	return points.IntPart(), nil
}

// AddPointsChecked returns a + b, or errs.InvalidArgument when the sum overflows int64.
func AddPointsChecked(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, errors.Wrapf(errs.InvalidArgument, "points overflow: %d + %d", a, b)
	}
	return sum, nil
}
