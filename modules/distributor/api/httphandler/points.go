package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gaze-network/distributor-network/modules/distributor/usecase"
	"github.com/gofiber/fiber/v2"
)

type addPointsRequest struct {
	Id     string `params:"id" json:"-"`
	Amount int64  `json:"amount"`
}

func (r addPointsRequest) Validate() error {
	var errList []error
	if r.Amount <= 0 {
		errList = append(errList, errors.New("'amount' must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type operationResponse = HttpResponse[usecase.Result]

// AddPoints awards points to a distributor and pays commission to its direct upline. Admin only.
func (h *HttpHandler) AddPoints(ctx *fiber.Ctx) (err error) {
	var req addPointsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.AddPointsWithCommission(ctx.UserContext(), req.Id, req.Amount)
	if err != nil {
		return errors.Wrap(err, "error during AddPointsWithCommission")
	}
	return errors.WithStack(ctx.JSON(operationResponse{Result: &result}))
}

type adminAddPointsRequest struct {
	Id     string           `params:"id" json:"-"`
	Amount int64            `json:"amount"`
	Kind   entity.PointKind `json:"kind"`
}

func (r *adminAddPointsRequest) Validate() error {
	var errList []error
	if r.Amount <= 0 {
		errList = append(errList, errors.New("'amount' must be positive"))
	}
	if r.Kind == "" {
		r.Kind = entity.PointKindPersonal
	}
	if !r.Kind.IsValid() {
		errList = append(errList, errors.Errorf("'kind' must be %q or %q", entity.PointKindPersonal, entity.PointKindCommission))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) AdminAddPoints(ctx *fiber.Ctx) (err error) {
	var req adminAddPointsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.AdminAddPoints(ctx.UserContext(), req.Id, req.Amount, req.Kind)
	if err != nil {
		return errors.Wrap(err, "error during AdminAddPoints")
	}
	return errors.WithStack(ctx.JSON(operationResponse{Result: &result}))
}

type recordActivityRequest struct {
	DistributorId string `json:"distributorId"`
	Amount        int64  `json:"amount"`
}

func (r recordActivityRequest) Validate() error {
	var errList []error
	if r.DistributorId == "" {
		errList = append(errList, errors.New("'distributorId' is required"))
	}
	if r.Amount <= 0 {
		errList = append(errList, errors.New("'amount' must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// RecordActivity is the external trigger for activity events.
func (h *HttpHandler) RecordActivity(ctx *fiber.Ctx) (err error) {
	var req recordActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.RecordActivity(ctx.UserContext(), req.DistributorId, req.Amount)
	if err != nil {
		return errors.Wrap(err, "error during RecordActivity")
	}
	return errors.WithStack(ctx.JSON(operationResponse{Result: &result}))
}

type runSnapshotResponse = HttpResponse[usecase.SnapshotResult]

func (h *HttpHandler) RunSnapshot(ctx *fiber.Ctx) (err error) {
	result, err := h.usecase.RunDailySnapshot(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during RunDailySnapshot")
	}
	return errors.WithStack(ctx.JSON(runSnapshotResponse{Result: result}))
}
