package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventmanagement/internal/domain"
)

type adminService struct {
	userRepo       domain.UserRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewAdminService(userRepo domain.UserRepository, logger *slog.Logger, timeout time.Duration) domain.AdminService {
	return &adminService{
		userRepo:       userRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *adminService) requireAdmin(ctx context.Context, callerID string) error {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get caller: %w", err)
	}
	if caller.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	return nil
}

func (s *adminService) ListPendingOrganizers(ctx context.Context, callerID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListByRoleAndVerification(ctx, domain.RoleOrganizer, domain.VerificationPending)
	if err != nil {
		return nil, fmt.Errorf("list pending organizers: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *adminService) ApproveOrganizer(ctx context.Context, callerID, organizerID string) error {
	return s.setVerification(ctx, callerID, organizerID, domain.VerificationVerified)
}

func (s *adminService) RejectOrganizer(ctx context.Context, callerID, organizerID string) error {
	return s.setVerification(ctx, callerID, organizerID, domain.VerificationRejected)
}

func (s *adminService) setVerification(ctx context.Context, callerID, organizerID string, status domain.VerificationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if err := s.userRepo.UpdateVerificationStatus(ctx, organizerID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update verification status: %w", err)
	}
	s.logger.InfoContext(ctx, "organizer verification updated",
		"organizer_id", organizerID, "status", status, "admin_id", callerID)
	return nil
}
