package repository

import (
	"database/sql"
	"fmt"
	"time"

	"gamepal/internal/database"
	"gamepal/internal/models"
)

// GuardianRepository handles database operations for guardian accounts,
// sessions, and password reset tokens
type GuardianRepository struct {
	db *database.DB
}

// NewGuardianRepository creates a new guardian repository
func NewGuardianRepository(db *database.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// CreateGuardian inserts a new guardian account
func (r *GuardianRepository) CreateGuardian(email, passwordHash, name string) (*models.Guardian, error) {
	query := `
		INSERT INTO guardians (email, password_hash, name)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create guardian: %w", err)
	}

	return &models.Guardian{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetGuardianByEmail retrieves a guardian by email address
func (r *GuardianRepository) GetGuardianByEmail(email string) (*models.Guardian, error) {
	return r.getGuardian("email = ?", email)
}

// GetGuardianByID retrieves a guardian by ID
func (r *GuardianRepository) GetGuardianByID(id int64) (*models.Guardian, error) {
	return r.getGuardian("id = ?", id)
}

// GetGuardianByOAuth retrieves a guardian by linked OAuth identity
func (r *GuardianRepository) GetGuardianByOAuth(provider, subject string) (*models.Guardian, error) {
	return r.getGuardian("oauth_provider = ? AND oauth_subject = ?", provider, subject)
}

func (r *GuardianRepository) getGuardian(where string, args ...interface{}) (*models.Guardian, error) {
	query := `
		SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at
		FROM guardians
		WHERE ` + where
	g := &models.Guardian{}
	err := r.db.QueryRow(query, args...).Scan(
		&g.ID,
		&g.Email,
		&g.PasswordHash,
		&g.Name,
		&g.OAuthProvider,
		&g.OAuthSubject,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guardian: %w", err)
	}

	return g, nil
}

// LinkOAuthProvider records an OAuth identity on an existing guardian
func (r *GuardianRepository) LinkOAuthProvider(guardianID int64, provider, subject string) error {
	query := "UPDATE guardians SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, provider, subject, guardianID); err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}
	return nil
}

// UpdateProfile updates a guardian's display name and contact email
func (r *GuardianRepository) UpdateProfile(guardianID int64, name, email string) error {
	query := "UPDATE guardians SET name = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, name, email, guardianID); err != nil {
		return fmt.Errorf("failed to update guardian profile: %w", err)
	}
	return nil
}

// UpdatePassword replaces a guardian's password hash
func (r *GuardianRepository) UpdatePassword(guardianID int64, passwordHash string) error {
	query := "UPDATE guardians SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, passwordHash, guardianID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteGuardian removes a guardian account. Children, likes, and meetings
// cascade at the database level.
func (r *GuardianRepository) DeleteGuardian(guardianID int64) error {
	if _, err := r.db.Exec("DELETE FROM guardians WHERE id = ?", guardianID); err != nil {
		return fmt.Errorf("failed to delete guardian: %w", err)
	}
	return nil
}

// CreateSession creates a new session for a guardian
func (r *GuardianRepository) CreateSession(sessionID string, guardianID int64, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, guardian_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, sessionID, guardianID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:         sessionID,
		GuardianID: guardianID,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
	}, nil
}

// GetSession retrieves a session by ID
func (r *GuardianRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, guardian_id, expires_at, created_at FROM sessions WHERE id = ?"
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.GuardianID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// DeleteSession removes a session
func (r *GuardianRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *GuardianRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// CreatePasswordResetToken stores a password reset token
func (r *GuardianRepository) CreatePasswordResetToken(token string, guardianID int64, expiresAt time.Time) error {
	query := "INSERT INTO password_reset_tokens (token, guardian_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, token, guardianID, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetPasswordResetToken retrieves a reset token
func (r *GuardianRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	query := "SELECT token, guardian_id, expires_at, created_at, used FROM password_reset_tokens WHERE token = ?"
	t := &models.PasswordResetToken{}
	err := r.db.QueryRow(query, token).Scan(
		&t.Token,
		&t.GuardianID,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.Used,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return t, nil
}

// MarkPasswordResetTokenUsed marks a reset token as used
func (r *GuardianRepository) MarkPasswordResetTokenUsed(token string) error {
	query := "UPDATE password_reset_tokens SET used = ? WHERE token = ?"
	if _, err := r.db.Exec(query, true, token); err != nil {
		return fmt.Errorf("failed to mark token used: %w", err)
	}
	return nil
}

// DeleteGuardianPasswordResetTokens removes all reset tokens for a guardian
func (r *GuardianRepository) DeleteGuardianPasswordResetTokens(guardianID int64) error {
	if _, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE guardian_id = ?", guardianID); err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	return nil
}

// DeleteExpiredPasswordResetTokens removes expired reset tokens
func (r *GuardianRepository) DeleteExpiredPasswordResetTokens() error {
	if _, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return nil
}
