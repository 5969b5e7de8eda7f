package domain

import "context"

// RegistrationResult is the outcome of RegistrationService.Register. For free events
// Registered is true; for paid events the caller is redirected to the hosted checkout
// in Checkout and attendance is granted later by the payment webhook.
type RegistrationResult struct {
	Registered bool             `json:"registered"`
	Checkout   *CheckoutSession `json:"checkout,omitempty"`
}

// RegistrationService defines attendee registration.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID string) (*RegistrationResult, error)
}
