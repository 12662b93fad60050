package httphandler

import (
	"github.com/gaze-network/distributor-network/pkg/middleware/auth"
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Post("/distributors/captains", h.RegisterCaptain)
	r.Post("/distributors/crew", h.RegisterCrew)
	r.Get("/distributors/:key", h.GetDistributor)
	r.Get("/rankings", h.GetRankings)

	authenticated := h.auth.New()
	r.Get("/me", authenticated, h.GetMe)
	r.Get("/me/downline", authenticated, h.GetMyDownline)
	r.Get("/me/referred-users", authenticated, h.GetMyReferredUsers)
	r.Post("/me/referred-users", authenticated, h.AddMyReferredUser)
	r.Post("/distributors/:id/points", h.auth.New(auth.RoleAdmin), h.AddPoints)

	admin := r.Group("/admin", h.auth.New(auth.RoleAdmin))
	admin.Get("/distributors", h.ListDistributors)
	admin.Post("/distributors/:id/approve", h.ApproveDistributor)
	admin.Post("/distributors/:id/reject", h.RejectDistributor)
	admin.Delete("/distributors/:id", h.DeleteDistributor)
	admin.Post("/distributors/:id/points", h.AdminAddPoints)
	admin.Put("/distributors/:id/upline", h.AssignUpline)
	admin.Post("/admins", h.CreateAdmin)
	admin.Put("/referred-users/:address/balance", h.UpdateReferredUserBalance)
	admin.Post("/activity", h.RecordActivity)
	admin.Post("/snapshot", h.RunSnapshot)
	return nil
}
