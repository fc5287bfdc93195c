package service

import (
	"fmt"

	"gamepal/internal/models"
	"gamepal/internal/repository"
	"gamepal/internal/security"
	"gamepal/internal/validation"
)

// GuardianService handles guardian profile settings
type GuardianService struct {
	guardianRepo *repository.GuardianRepository
}

// NewGuardianService creates a new guardian service
func NewGuardianService(guardianRepo *repository.GuardianRepository) *GuardianService {
	return &GuardianService{guardianRepo: guardianRepo}
}

// UpdateProfile changes a guardian's display name and email address
func (s *GuardianService) UpdateProfile(guardianID int64, name, email string) (*models.Guardian, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.guardianRepo.GetGuardianByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil && existing.ID != guardianID {
		return nil, ErrEmailTaken
	}

	if err := s.guardianRepo.UpdateProfile(guardianID, name, email); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	guardian, err := s.guardianRepo.GetGuardianByID(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload guardian: %w", err)
	}
	return guardian, nil
}

// ChangePassword sets a new password after verifying the current one
func (s *GuardianService) ChangePassword(guardianID int64, currentPassword, newPassword string) error {
	guardian, err := s.guardianRepo.GetGuardianByID(guardianID)
	if err != nil {
		return fmt.Errorf("failed to get guardian: %w", err)
	}
	if guardian == nil {
		return ErrSessionNotFound
	}

	if !security.CheckPassword(currentPassword, guardian.PasswordHash) {
		return ErrInvalidCredentials
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.guardianRepo.UpdatePassword(guardianID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteAccount removes the guardian and, via cascade, their children,
// likes, and sessions
func (s *GuardianService) DeleteAccount(guardianID int64) error {
	if err := s.guardianRepo.DeleteGuardian(guardianID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
