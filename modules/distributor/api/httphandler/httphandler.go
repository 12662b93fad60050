package httphandler

import (
	"github.com/gaze-network/distributor-network/common"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/modules/distributor/usecase"
	"github.com/gaze-network/distributor-network/pkg/middleware/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type HttpHandler struct {
	usecase *usecase.Usecase
	auth    *auth.Authenticator
}

func New(usecase *usecase.Usecase, authenticator *auth.Authenticator) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
		auth:    authenticator,
	}
}

type HttpResponse[T any] common.HttpResponse[T]

type distributor struct {
	Id                  string  `json:"id"`
	WalletAddress       string  `json:"walletAddress"`
	ReferralCode        string  `json:"referralCode"`
	Role                string  `json:"role"`
	RoleType            string  `json:"roleType"`
	Status              string  `json:"status"`
	PersonalPoints      int64   `json:"personalPoints"`
	CommissionPoints    int64   `json:"commissionPoints"`
	TotalPoints         int64   `json:"totalPoints"`
	UplineDistributorId *string `json:"uplineDistributorId"`
	RegistrationDate    string  `json:"registrationDate"`
	CreatedAt           int64   `json:"createdAt"` // unix timestamp
	Rank                *int    `json:"rank,omitempty"`
}

func mapDistributor(d entity.Distributor) distributor {
	return distributor{
		Id:                  d.ID,
		WalletAddress:       d.WalletAddress,
		ReferralCode:        d.ReferralCode,
		Role:                string(d.Role),
		RoleType:            string(d.RoleType),
		Status:              string(d.Status),
		PersonalPoints:      d.PersonalPoints,
		CommissionPoints:    d.CommissionPoints,
		TotalPoints:         d.TotalPoints,
		UplineDistributorId: lo.EmptyableToPtr(d.UplineID),
		RegistrationDate:    d.RegistrationDate,
		CreatedAt:           d.CreatedAt.Unix(),
	}
}

func mapRankedDistributor(d entity.RankedDistributor) distributor {
	result := mapDistributor(d.Distributor)
	if d.Rank > 0 {
		result.Rank = lo.ToPtr(d.Rank)
	}
	return result
}

func mapDistributors(src []entity.Distributor) []distributor {
	return lo.Map(src, func(item entity.Distributor, _ int) distributor {
		return mapDistributor(item)
	})
}

type referredUser struct {
	Id            string          `json:"id"`
	Address       string          `json:"address"`
	DistributorId string          `json:"distributorId"`
	WusdBalance   decimal.Decimal `json:"wusdBalance"`
	PointsEarned  int64           `json:"pointsEarned"`
	CreatedAt     int64           `json:"createdAt"` // unix timestamp
	UpdatedAt     int64           `json:"updatedAt"` // unix timestamp
}

func mapReferredUser(u entity.ReferredUser) referredUser {
	return referredUser{
		Id:            u.ID,
		Address:       u.Address,
		DistributorId: u.DistributorID,
		WusdBalance:   u.WusdBalance,
		PointsEarned:  u.PointsEarned,
		CreatedAt:     u.CreatedAt.Unix(),
		UpdatedAt:     u.UpdatedAt.Unix(),
	}
}

// identity returns the verified caller set by the auth middleware.
func identity(ctx *fiber.Ctx) (auth.Identity, error) {
	id, ok := auth.FromContext(ctx.UserContext())
	if !ok {
		return auth.Identity{}, errs.NewPublicError(errs.Unauthorized, "missing identity")
	}
	return id, nil
}
