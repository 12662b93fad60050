package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type registerCaptainRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (r registerCaptainRequest) Validate() error {
	var errList []error
	if r.WalletAddress == "" {
		errList = append(errList, errors.New("'walletAddress' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type registerResponse = HttpResponse[distributor]

func (h *HttpHandler) RegisterCaptain(ctx *fiber.Ctx) (err error) {
	var req registerCaptainRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	captain, err := h.usecase.RegisterCaptain(ctx.UserContext(), req.WalletAddress)
	if err != nil {
		return errors.Wrap(err, "error during RegisterCaptain")
	}

	resp := registerResponse{
		Result: lo.ToPtr(mapDistributor(*captain)),
	}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}

type registerCrewRequest struct {
	WalletAddress string `json:"walletAddress"`
	ReferralCode  string `json:"referralCode"`
}

func (r registerCrewRequest) Validate() error {
	var errList []error
	if r.WalletAddress == "" {
		errList = append(errList, errors.New("'walletAddress' is required"))
	}
	if r.ReferralCode == "" {
		errList = append(errList, errors.New("'referralCode' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) RegisterCrew(ctx *fiber.Ctx) (err error) {
	var req registerCrewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	crew, err := h.usecase.RegisterCrew(ctx.UserContext(), req.WalletAddress, req.ReferralCode)
	if err != nil {
		return errors.Wrap(err, "error during RegisterCrew")
	}

	resp := registerResponse{
		Result: lo.ToPtr(mapDistributor(*crew)),
	}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
