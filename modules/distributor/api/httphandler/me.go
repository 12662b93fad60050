package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getMeResponse = HttpResponse[distributor]

func (h *HttpHandler) GetMe(ctx *fiber.Ctx) (err error) {
	id, err := identity(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	d, err := h.usecase.GetDistributor(ctx.UserContext(), id.DistributorID)
	if err != nil {
		return errors.Wrap(err, "error during GetDistributor")
	}

	resp := getMeResponse{
		Result: lo.ToPtr(mapRankedDistributor(*d)),
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getMyDownlineResult struct {
	List []distributor `json:"list"`
}

type getMyDownlineResponse = HttpResponse[getMyDownlineResult]

func (h *HttpHandler) GetMyDownline(ctx *fiber.Ctx) (err error) {
	id, err := identity(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	downline, err := h.usecase.GetDownline(ctx.UserContext(), id.DistributorID)
	if err != nil {
		return errors.Wrap(err, "error during GetDownline")
	}

	resp := getMyDownlineResponse{
		Result: &getMyDownlineResult{
			List: mapDistributors(downline),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getMyReferredUsersResult struct {
	List []referredUser `json:"list"`
}

type getMyReferredUsersResponse = HttpResponse[getMyReferredUsersResult]

func (h *HttpHandler) GetMyReferredUsers(ctx *fiber.Ctx) (err error) {
	id, err := identity(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	users, err := h.usecase.ListReferredUsers(ctx.UserContext(), id.DistributorID)
	if err != nil {
		return errors.Wrap(err, "error during ListReferredUsers")
	}

	resp := getMyReferredUsersResponse{
		Result: &getMyReferredUsersResult{
			List: lo.Map(users, func(item entity.ReferredUser, _ int) referredUser {
				return mapReferredUser(item)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type addMyReferredUserRequest struct {
	Address string `json:"address"`
}

func (r addMyReferredUserRequest) Validate() error {
	var errList []error
	if r.Address == "" {
		errList = append(errList, errors.New("'address' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type addMyReferredUserResponse = HttpResponse[referredUser]

func (h *HttpHandler) AddMyReferredUser(ctx *fiber.Ctx) (err error) {
	id, err := identity(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req addMyReferredUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.usecase.AddReferredUser(ctx.UserContext(), id.DistributorID, req.Address)
	if err != nil {
		return errors.Wrap(err, "error during AddReferredUser")
	}

	resp := addMyReferredUserResponse{
		Result: lo.ToPtr(mapReferredUser(*user)),
	}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
