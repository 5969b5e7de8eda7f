package controllers

import (
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

// CreateReviewRequest is the body of both review endpoints.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

// ReviewSuccessResponse is the success envelope for a created review.
type ReviewSuccessResponse struct {
	Data  *domain.Review    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ReviewListSuccessResponse is the success envelope for review listings.
type ReviewListSuccessResponse struct {
	Data  []*domain.Review  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ReviewController struct {
	Logger  *slog.Logger
	Service domain.ReviewService
}

func NewReviewController(logger *slog.Logger, svc domain.ReviewService) *ReviewController {
	return &ReviewController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEventReview godoc
// @Summary Review an event
// @Description Only attendees of the event may review it, once each.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.CreateReviewRequest true "Rating 1-5 and comment"
// @Success 201 {object} controllers.ReviewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_reviewed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reviews/event/{eventID} [post]
func (c *ReviewController) CreateEventReview(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, req, ok := c.decodeReview(w, r)
	if !ok {
		return
	}
	review, err := c.Service.ReviewEvent(r.Context(), eventID, userID, req.Rating, req.Comment)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, review)
}

// ListEventReviews godoc
// @Summary List an event's reviews
// @Description Newest first.
// @Tags reviews
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ReviewListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reviews/event/{eventID} [get]
func (c *ReviewController) ListEventReviews(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	list, err := c.Service.ListEventReviews(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// CreateOrganizerReview godoc
// @Summary Review an organizer
// @Description One review per user and organizer; organizers cannot review themselves.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param organizerID path string true "Organizer ID (UUID)"
// @Param body body controllers.CreateReviewRequest true "Rating 1-5 and comment"
// @Success 201 {object} controllers.ReviewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_reviewed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reviews/organizer/{organizerID} [post]
func (c *ReviewController) CreateOrganizerReview(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := helpers.PathUUID(w, r, "organizerID")
	if !ok {
		return
	}
	userID, req, ok := c.decodeReview(w, r)
	if !ok {
		return
	}
	review, err := c.Service.ReviewOrganizer(r.Context(), organizerID, userID, req.Rating, req.Comment)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, review)
}

// ListOrganizerReviews godoc
// @Summary List an organizer's reviews
// @Description Newest first.
// @Tags reviews
// @Produce json
// @Param organizerID path string true "Organizer ID (UUID)"
// @Success 200 {object} controllers.ReviewListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reviews/organizer/{organizerID} [get]
func (c *ReviewController) ListOrganizerReviews(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := helpers.PathUUID(w, r, "organizerID")
	if !ok {
		return
	}
	list, err := c.Service.ListOrganizerReviews(r.Context(), organizerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

func (c *ReviewController) decodeReview(w http.ResponseWriter, r *http.Request) (string, *CreateReviewRequest, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", nil, false
	}
	var req CreateReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return "", nil, false
	}
	return userID, &req, true
}
