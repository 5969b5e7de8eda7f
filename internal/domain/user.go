package domain

import (
	"context"
	"time"
)

// Role is the application role of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// VerificationStatus gates organizers: only verified organizers may create events.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// User represents a registered account.
// swagger:model User
type User struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	PasswordHash       string             `json:"-"`
	Role               Role               `json:"role"`
	Location           Location           `json:"location"`
	OrganizationName   string             `json:"organization_name,omitempty"`
	Bio                string             `json:"bio"`
	Website            string             `json:"website"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewUser returns a new User. Organizers start pending verification; everyone else is verified.
// ID is typically set by the repository on create.
func NewUser(name, email string, role Role, location Location, organizationName string, createdAt, updatedAt time.Time) *User {
	status := VerificationVerified
	if role == RoleOrganizer {
		status = VerificationPending
	}
	if role != RoleOrganizer {
		organizationName = ""
	}
	return &User{
		Name:               name,
		Email:              email,
		Role:               role,
		Location:           location,
		OrganizationName:   organizationName,
		VerificationStatus: status,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

// CanCreateEvents reports whether the user is a verified organizer.
func (u *User) CanCreateEvents() bool {
	return u.Role == RoleOrganizer && u.VerificationStatus == VerificationVerified
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRoleAndLocation(ctx context.Context, role Role, location Location) ([]*User, error)
	ListByRoleAndVerification(ctx context.Context, role Role, status VerificationStatus) ([]*User, error)
	UpdateVerificationStatus(ctx context.Context, id string, status VerificationStatus) error
}

// SignUpInput carries the fields accepted by AuthService.SignUp.
type SignUpInput struct {
	Name             string
	Email            string
	Password         string
	Role             Role
	Location         Location
	OrganizationName string
}

// AuthService defines account registration and login.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// AdminService defines organizer verification operations available to admins.
type AdminService interface {
	ListPendingOrganizers(ctx context.Context, callerID string) ([]*User, error)
	ApproveOrganizer(ctx context.Context, callerID, organizerID string) error
	RejectOrganizer(ctx context.Context, callerID, organizerID string) error
}
