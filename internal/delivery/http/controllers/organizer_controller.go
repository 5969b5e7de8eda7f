package controllers

import (
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

// OrganizerProfileSuccessResponse is the success envelope for GET /organizers/{organizerID}.
type OrganizerProfileSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// OrganizerEventsSuccessResponse is the success envelope for GET /organizers/{organizerID}/events.
type OrganizerEventsSuccessResponse struct {
	Data  *domain.OrganizerEvents `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// OrganizerController serves the public organizer pages.
type OrganizerController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewOrganizerController(logger *slog.Logger, svc domain.EventService) *OrganizerController {
	return &OrganizerController{
		Logger:  logger,
		Service: svc,
	}
}

// GetProfile godoc
// @Summary Get an organizer's public profile
// @Tags organizers
// @Produce json
// @Param organizerID path string true "Organizer ID (UUID)"
// @Success 200 {object} controllers.OrganizerProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/{organizerID} [get]
func (c *OrganizerController) GetProfile(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := helpers.PathUUID(w, r, "organizerID")
	if !ok {
		return
	}
	user, err := c.Service.GetOrganizerProfile(r.Context(), organizerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// ListEvents godoc
// @Summary List an organizer's active events
// @Description Active events split into upcoming and past around the current time.
// @Tags organizers
// @Produce json
// @Param organizerID path string true "Organizer ID (UUID)"
// @Success 200 {object} controllers.OrganizerEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/{organizerID}/events [get]
func (c *OrganizerController) ListEvents(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := helpers.PathUUID(w, r, "organizerID")
	if !ok {
		return
	}
	events, err := c.Service.ListOrganizerEvents(r.Context(), organizerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
