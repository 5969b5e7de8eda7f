package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

// UserListSuccessResponse is the success envelope for endpoints returning users.
type UserListSuccessResponse struct {
	Data  []*domain.User    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// ListPendingOrganizers godoc
// @Summary List organizers waiting for verification
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/pending-organizers [get]
func (c *AdminController) ListPendingOrganizers(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	users, err := c.Service.ListPendingOrganizers(r.Context(), callerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// ApproveOrganizer godoc
// @Summary Approve an organizer
// @Description Marks the organizer verified so they can create events.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param organizerID path string true "Organizer ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers/{organizerID}/approve [patch]
func (c *AdminController) ApproveOrganizer(w http.ResponseWriter, r *http.Request) {
	c.setVerification(w, r, c.Service.ApproveOrganizer, domain.VerificationVerified)
}

// RejectOrganizer godoc
// @Summary Reject an organizer
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param organizerID path string true "Organizer ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers/{organizerID}/reject [patch]
func (c *AdminController) RejectOrganizer(w http.ResponseWriter, r *http.Request) {
	c.setVerification(w, r, c.Service.RejectOrganizer, domain.VerificationRejected)
}

type verificationFunc func(ctx context.Context, callerID, organizerID string) error

func (c *AdminController) setVerification(w http.ResponseWriter, r *http.Request, apply verificationFunc, status domain.VerificationStatus) {
	organizerID, ok := helpers.PathUUID(w, r, "organizerID")
	if !ok {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := apply(r.Context(), callerID, organizerID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{
		"id":                  organizerID,
		"verification_status": string(status),
	})
}
