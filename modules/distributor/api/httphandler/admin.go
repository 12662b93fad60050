package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/modules/distributor/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type listDistributorsRequest struct {
	Status string `query:"status"`
}

func (r listDistributorsRequest) Validate() error {
	var errList []error
	if r.Status != "" && !entity.Status(r.Status).IsValid() {
		errList = append(errList, errors.Errorf("unknown 'status' %q", r.Status))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type listDistributorsResult struct {
	List []distributor `json:"list"`
}

type listDistributorsResponse = HttpResponse[listDistributorsResult]

func (h *HttpHandler) ListDistributors(ctx *fiber.Ctx) (err error) {
	var req listDistributorsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	var status *entity.Status
	if req.Status != "" {
		status = lo.ToPtr(entity.Status(req.Status))
	}
	distributors, err := h.usecase.ListDistributors(ctx.UserContext(), status)
	if err != nil {
		return errors.Wrap(err, "error during ListDistributors")
	}

	resp := listDistributorsResponse{
		Result: &listDistributorsResult{
			List: mapDistributors(distributors),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type approveDistributorRequest struct {
	Id       string `params:"id" json:"-"`
	UplineId string `json:"uplineId"`
}

type distributorResponse = HttpResponse[distributor]

func (h *HttpHandler) ApproveDistributor(ctx *fiber.Ctx) (err error) {
	var req approveDistributorRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	// body is optional
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errors.WithStack(err)
		}
	}

	d, err := h.usecase.ApproveDistributor(ctx.UserContext(), req.Id, req.UplineId)
	if err != nil {
		return errors.Wrap(err, "error during ApproveDistributor")
	}
	return errors.WithStack(ctx.JSON(distributorResponse{Result: lo.ToPtr(mapDistributor(*d))}))
}

type distributorIdRequest struct {
	Id string `params:"id"`
}

func (h *HttpHandler) RejectDistributor(ctx *fiber.Ctx) (err error) {
	var req distributorIdRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}

	d, err := h.usecase.RejectDistributor(ctx.UserContext(), req.Id)
	if err != nil {
		return errors.Wrap(err, "error during RejectDistributor")
	}
	return errors.WithStack(ctx.JSON(distributorResponse{Result: lo.ToPtr(mapDistributor(*d))}))
}

func (h *HttpHandler) DeleteDistributor(ctx *fiber.Ctx) (err error) {
	var req distributorIdRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.DeleteDistributor(ctx.UserContext(), req.Id)
	if err != nil {
		return errors.Wrap(err, "error during DeleteDistributor")
	}
	return errors.WithStack(ctx.JSON(operationResponse{Result: &result}))
}

type assignUplineRequest struct {
	Id       string `params:"id" json:"-"`
	UplineId string `json:"uplineId"`
}

func (r assignUplineRequest) Validate() error {
	var errList []error
	if r.UplineId == "" {
		errList = append(errList, errors.New("'uplineId' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) AssignUpline(ctx *fiber.Ctx) (err error) {
	var req assignUplineRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.AssignUpline(ctx.UserContext(), req.Id, req.UplineId)
	if err != nil {
		return errors.Wrap(err, "error during AssignUpline")
	}
	return errors.WithStack(ctx.JSON(operationResponse{Result: &result}))
}

type createAdminRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (h *HttpHandler) CreateAdmin(ctx *fiber.Ctx) (err error) {
	var req createAdminRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.WalletAddress == "" {
		return errs.NewPublicError(errs.InvalidArgument, "validation error: 'walletAddress' is required")
	}

	admin, err := h.usecase.CreateAdmin(ctx.UserContext(), req.WalletAddress)
	if err != nil {
		return errors.Wrap(err, "error during CreateAdmin")
	}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(distributorResponse{Result: lo.ToPtr(mapDistributor(*admin))}))
}

type updateReferredUserBalanceRequest struct {
	Address     string           `params:"address" json:"-"`
	WusdBalance *decimal.Decimal `json:"wusdBalance"`
}

func (r updateReferredUserBalanceRequest) Validate() error {
	var errList []error
	if r.WusdBalance == nil {
		errList = append(errList, errors.New("'wusdBalance' is required"))
	} else if r.WusdBalance.IsNegative() {
		errList = append(errList, errors.New("'wusdBalance' must not be negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type referredUserResponse = HttpResponse[referredUser]

func (h *HttpHandler) UpdateReferredUserBalance(ctx *fiber.Ctx) (err error) {
	var req updateReferredUserBalanceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.usecase.UpdateReferredUserBalance(ctx.UserContext(), req.Address, *req.WusdBalance)
	if err != nil {
		return errors.Wrap(err, "error during UpdateReferredUserBalance")
	}
	return errors.WithStack(ctx.JSON(referredUserResponse{Result: lo.ToPtr(mapReferredUser(*user))}))
}
