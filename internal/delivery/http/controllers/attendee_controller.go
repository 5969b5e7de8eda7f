package controllers

import (
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewAttendeeController(logger *slog.Logger, svc domain.RegistrationService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterSuccessResponse is the success envelope for POST /events/{eventID}/register.
type RegisterSuccessResponse struct {
	Data  *domain.RegistrationResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Register godoc
// @Summary Register the caller for an event
// @Description Free events: the caller is added to the attendees (201). Paid events: a hosted checkout session is created and returned in data.checkout (200); attendance is granted when the payment webhook arrives.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.RegisterSuccessResponse "Registered for a free event"
// @Success 200 {object} controllers.RegisterSuccessResponse "Checkout session for a paid event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_registered or event_not_active"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_failure"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *AttendeeController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	result, err := c.Service.Register(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if result.Registered {
		helpers.WriteJSONSuccess(w, http.StatusCreated, result)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
