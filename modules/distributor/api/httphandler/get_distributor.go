package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getDistributorRequest struct {
	Key string `params:"key"`
}

type getDistributorResponse = HttpResponse[distributor]

// GetDistributor looks a distributor up by id, wallet address or referral code.
func (h *HttpHandler) GetDistributor(ctx *fiber.Ctx) (err error) {
	var req getDistributorRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}

	d, err := h.usecase.GetDistributor(ctx.UserContext(), req.Key)
	if err != nil {
		return errors.Wrap(err, "error during GetDistributor")
	}

	resp := getDistributorResponse{
		Result: lo.ToPtr(mapRankedDistributor(*d)),
	}
	return errors.WithStack(ctx.JSON(resp))
}

const (
	defaultRankingsLimit = 100
	maxRankingsLimit     = 1000
)

type getRankingsRequest struct {
	Limit int `query:"limit"`
}

func (r *getRankingsRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > maxRankingsLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", maxRankingsLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getRankingsResult struct {
	List []distributor `json:"list"`
}

type getRankingsResponse = HttpResponse[getRankingsResult]

func (h *HttpHandler) GetRankings(ctx *fiber.Ctx) (err error) {
	var req getRankingsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if req.Limit == 0 {
		req.Limit = defaultRankingsLimit
	}

	rankings, err := h.usecase.GetRankings(ctx.UserContext(), req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during GetRankings")
	}

	resp := getRankingsResponse{
		Result: &getRankingsResult{
			List: lo.Map(rankings, func(item entity.RankedDistributor, _ int) distributor {
				return mapRankedDistributor(item)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
