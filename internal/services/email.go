package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

const registrationConfirmedTemplate = "registration_confirmed"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendRegistrationConfirmed sends the "registration_confirmed" template to the attendee.
func (s *emailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationConfirmedEmailData) error {
	if data == nil {
		return fmt.Errorf("registration confirmed data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(registrationConfirmedTemplate, data)
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(registrationConfirmedTemplate, "render_error").Inc()
		return fmt.Errorf("failed to render %s template: %w", registrationConfirmedTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		metrics.EmailsTotal.WithLabelValues(registrationConfirmedTemplate, "send_error").Inc()
		return fmt.Errorf("failed to send registration confirmation: %w", err)
	}
	metrics.EmailsTotal.WithLabelValues(registrationConfirmedTemplate, "sent").Inc()
	s.logger.InfoContext(ctx, "registration confirmation sent", "to", data.Email, "event_title", data.EventTitle)
	return nil
}

// confirmRegistration emails the attendee after their row was inserted. Failures are logged only.
func confirmRegistration(ctx context.Context, logger *slog.Logger, emails domain.EmailService, user *domain.User, event *domain.Event) {
	if emails == nil || user == nil || event == nil {
		return
	}
	data := &domain.RegistrationConfirmedEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventTitle: event.Title,
		EventDate:  event.Date.Format("Mon, 02 Jan 2006 15:04 MST"),
		Location:   string(event.Location),
		Paid:       !event.IsFree,
		Price:      event.Price,
	}
	if err := emails.SendRegistrationConfirmed(ctx, data); err != nil {
		logger.WarnContext(ctx, "registration confirmation email failed",
			"event_id", event.ID, "user_id", user.ID, "err", err)
	}
}
