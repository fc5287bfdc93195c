package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gamepal/internal/models"
	"gamepal/internal/repository"
	"gamepal/internal/security"
	"gamepal/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles guardian authentication business logic
type AuthService struct {
	guardianRepo    *repository.GuardianRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(guardianRepo *repository.GuardianRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		guardianRepo:    guardianRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new guardian account
func (s *AuthService) Register(email, password, name string) (*models.Guardian, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.guardianRepo.GetGuardianByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing guardian: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	guardian, err := s.guardianRepo.CreateGuardian(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create guardian: %w", err)
	}

	return guardian, nil
}

// Login authenticates a guardian and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.Guardian, error) {
	guardian, err := s.guardianRepo.GetGuardianByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get guardian: %w", err)
	}
	if guardian == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, guardian.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(guardian.ID)
	if err != nil {
		return nil, nil, err
	}

	return session, guardian, nil
}

// ValidateSession checks if a session is valid and returns the associated guardian
func (s *AuthService) ValidateSession(sessionID string) (*models.Guardian, error) {
	session, err := s.guardianRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.guardianRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	guardian, err := s.guardianRepo.GetGuardianByID(session.GuardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guardian: %w", err)
	}
	if guardian == nil {
		return nil, ErrSessionNotFound
	}

	return guardian, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.guardianRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.guardianRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a guardian using an OAuth provider
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.Guardian, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	guardian, err := s.guardianRepo.GetGuardianByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth guardian: %w", err)
	}

	if guardian == nil {
		existing, err := s.guardianRepo.GetGuardianByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing guardian: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.guardianRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			guardian = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			// OAuth accounts never use the password, but the column is
			// non-empty so credential login stays impossible to guess
			randomPasswordHash, err := security.HashPassword(security.GenerateSessionID())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			created, err := s.guardianRepo.CreateGuardian(email, randomPasswordHash, name)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth guardian: %w", err)
			}
			if err := s.guardianRepo.LinkOAuthProvider(created.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			guardian = created
		}
	}

	session, err := s.createSession(guardian.ID)
	if err != nil {
		return nil, nil, err
	}

	return session, guardian, nil
}

func (s *AuthService) createSession(guardianID int64) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.guardianRepo.CreateSession(sessionID, guardianID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// RequestPasswordReset creates a password reset token and sends an email
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailService *EmailService, email string) error {
	guardian, err := s.guardianRepo.GetGuardianByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get guardian: %w", err)
	}

	// Don't reveal whether the address has an account
	if guardian == nil {
		return nil
	}

	if guardian.OAuthProvider != "" && guardian.PasswordHash == "" {
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_ = s.guardianRepo.DeleteGuardianPasswordResetTokens(guardian.ID)

	expiresAt := time.Now().Add(1 * time.Hour)
	if err := s.guardianRepo.CreatePasswordResetToken(token, guardian.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendPasswordResetEmail(ctx, guardian.Email, guardian.Name, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}

	return nil
}

// ValidatePasswordResetToken checks if a reset token is valid
func (s *AuthService) ValidatePasswordResetToken(token string) (bool, error) {
	resetToken, err := s.guardianRepo.GetPasswordResetToken(token)
	if err != nil {
		return false, fmt.Errorf("failed to get reset token: %w", err)
	}
	if resetToken == nil || resetToken.Used || resetToken.IsExpired() {
		return false, nil
	}
	return true, nil
}

// ResetPassword resets a guardian's password using a valid token
func (s *AuthService) ResetPassword(token, newPassword string) error {
	resetToken, err := s.guardianRepo.GetPasswordResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	if resetToken == nil {
		return errors.New("invalid or expired reset token")
	}
	if resetToken.Used {
		return errors.New("this reset link has already been used")
	}
	if resetToken.IsExpired() {
		return errors.New("this reset link has expired")
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.guardianRepo.UpdatePassword(resetToken.GuardianID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.guardianRepo.MarkPasswordResetTokenUsed(token); err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}

	return nil
}

// CleanupExpiredPasswordResetTokens removes expired reset tokens
func (s *AuthService) CleanupExpiredPasswordResetTokens() error {
	if err := s.guardianRepo.DeleteExpiredPasswordResetTokens(); err != nil {
		return fmt.Errorf("failed to cleanup reset tokens: %w", err)
	}
	return nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
