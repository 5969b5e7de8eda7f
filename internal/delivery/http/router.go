package http

import (
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Event        *controllers.EventController
	Attendee     *controllers.AttendeeController
	Checkout     *controllers.CheckoutController
	Organizer    *controllers.OrganizerController
	Auth         *controllers.AuthController
	Admin        *controllers.AdminController
	Notification *controllers.NotificationController
	Review       *controllers.ReviewController
}

// RouterConfig carries the collaborators needed by the route-level middleware.
type RouterConfig struct {
	Logger         *slog.Logger
	TokenVerifier  domain.TokenVerifier
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.TokenVerifier, cfg.Logger)

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/featured", c.Event.ListFeaturedEvents)
	mux.HandleFunc("GET /events/my-events", auth(c.Event.ListMyEvents))
	mux.HandleFunc("GET /events/attending", auth(c.Event.ListAttendingEvents))
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("PUT /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("PATCH /events/{eventID}/cancel", auth(c.Event.CancelEvent))
	mux.HandleFunc("POST /events/{eventID}/register", auth(c.Attendee.Register))

	// Checkout; the webhook is authenticated by its signature, not a token
	mux.HandleFunc("POST /checkout/create-session", auth(c.Checkout.CreateSession))
	mux.HandleFunc("POST /checkout/webhook", c.Checkout.Webhook)

	// Organizers
	mux.HandleFunc("GET /organizers/{organizerID}", c.Organizer.GetProfile)
	mux.HandleFunc("GET /organizers/{organizerID}/events", c.Organizer.ListEvents)

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.LoginLimiter.Limit(c.Auth.Login))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notification.List))
	mux.HandleFunc("GET /notifications/unread-count", auth(c.Notification.UnreadCount))
	mux.HandleFunc("PATCH /notifications/{notificationID}/read", auth(c.Notification.MarkRead))

	// Reviews; reads are public
	mux.HandleFunc("POST /reviews/event/{eventID}", auth(c.Review.CreateEventReview))
	mux.HandleFunc("GET /reviews/event/{eventID}", c.Review.ListEventReviews)
	mux.HandleFunc("POST /reviews/organizer/{organizerID}", auth(c.Review.CreateOrganizerReview))
	mux.HandleFunc("GET /reviews/organizer/{organizerID}", c.Review.ListOrganizerReviews)

	// Admin
	mux.HandleFunc("GET /admin/pending-organizers", auth(c.Admin.ListPendingOrganizers))
	mux.HandleFunc("PATCH /admin/organizers/{organizerID}/approve", auth(c.Admin.ApproveOrganizer))
	mux.HandleFunc("PATCH /admin/organizers/{organizerID}/reject", auth(c.Admin.RejectOrganizer))

	// Operational
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler builds the full server handler: routes wrapped with metrics, request
// logging and CORS.
func NewHandler(c Controllers, cfg RouterConfig) http.Handler {
	var h http.Handler = NewRouter(c, cfg)
	h = middleware.CORS(cfg.AllowedOrigins, h)
	h = middleware.LoggingMiddleware(cfg.Logger, h)
	return metrics.HTTPMiddleware(h)
}
