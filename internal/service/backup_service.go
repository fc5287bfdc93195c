package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gamepal/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Guardians  []GuardianBackup `json:"guardians"`
	Children   []ChildBackup    `json:"children"`
	Likes      []LikeBackup     `json:"likes"`
	Meetings   []MeetingBackup  `json:"meetings"`
}

// GuardianBackup represents a guardian record for backup
type GuardianBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ChildBackup represents a child record for backup. Attribute selections
// are stored as taxonomy value ids.
type ChildBackup struct {
	ID         int64     `json:"id"`
	GuardianID int64     `json:"guardian_id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Bio        string    `json:"bio"`
	Avatar     string    `json:"avatar"`
	Attributes []int64   `json:"attributes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LikeBackup represents a like record for backup
type LikeBackup struct {
	ID         int64      `json:"id"`
	FromChild  int64      `json:"from_child"`
	ToChild    int64      `json:"to_child"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at"`
}

// MeetingBackup represents a meeting record for backup
type MeetingBackup struct {
	ID          int64     `json:"id"`
	LikeID      int64     `json:"like_id"`
	ScheduledBy int64     `json:"scheduled_by"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportGuardians(backup); err != nil {
		return fmt.Errorf("failed to export guardians: %w", err)
	}
	if err := s.exportChildren(backup); err != nil {
		return fmt.Errorf("failed to export children: %w", err)
	}
	if err := s.exportLikes(backup); err != nil {
		return fmt.Errorf("failed to export likes: %w", err)
	}
	if err := s.exportMeetings(backup); err != nil {
		return fmt.Errorf("failed to export meetings: %w", err)
	}

	log.Printf("Exported: %d guardians, %d children, %d likes, %d meetings",
		len(backup.Guardians), len(backup.Children), len(backup.Likes), len(backup.Meetings))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in dependency order
	if err := s.importGuardians(backup.Guardians); err != nil {
		return fmt.Errorf("failed to import guardians: %w", err)
	}
	if err := s.importChildren(backup.Children); err != nil {
		return fmt.Errorf("failed to import children: %w", err)
	}
	if err := s.importLikes(backup.Likes); err != nil {
		return fmt.Errorf("failed to import likes: %w", err)
	}
	if err := s.importMeetings(backup.Meetings); err != nil {
		return fmt.Errorf("failed to import meetings: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportGuardians(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at FROM guardians ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GuardianBackup
		if err := rows.Scan(&g.ID, &g.Email, &g.PasswordHash, &g.Name, &g.OAuthProvider, &g.OAuthSubject, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		backup.Guardians = append(backup.Guardians, g)
	}
	return rows.Err()
}

func (s *BackupService) exportChildren(backup *BackupData) error {
	query := "SELECT id, guardian_id, name, age, bio, avatar, created_at, updated_at FROM children ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	var children []ChildBackup
	for rows.Next() {
		var c ChildBackup
		if err := rows.Scan(&c.ID, &c.GuardianID, &c.Name, &c.Age, &c.Bio, &c.Avatar, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
		children = append(children, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range children {
		attrQuery := "SELECT value_id FROM child_attributes WHERE child_id = ? ORDER BY value_id"
		attrRows, err := s.db.Query(attrQuery, children[i].ID)
		if err != nil {
			return err
		}
		for attrRows.Next() {
			var valueID int64
			if err := attrRows.Scan(&valueID); err != nil {
				attrRows.Close()
				return err
			}
			children[i].Attributes = append(children[i].Attributes, valueID)
		}
		if err := attrRows.Err(); err != nil {
			attrRows.Close()
			return err
		}
		attrRows.Close()
	}

	backup.Children = children
	return nil
}

func (s *BackupService) exportLikes(backup *BackupData) error {
	query := "SELECT id, from_child, to_child, status, created_at, approved_at FROM child_likes ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l LikeBackup
		var approvedAt sql.NullTime
		if err := rows.Scan(&l.ID, &l.FromChild, &l.ToChild, &l.Status, &l.CreatedAt, &approvedAt); err != nil {
			return err
		}
		if approvedAt.Valid {
			l.ApprovedAt = &approvedAt.Time
		}
		backup.Likes = append(backup.Likes, l)
	}
	return rows.Err()
}

func (s *BackupService) exportMeetings(backup *BackupData) error {
	query := "SELECT id, like_id, scheduled_by, meeting_date, meeting_time, notes, created_at FROM meetings ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MeetingBackup
		if err := rows.Scan(&m.ID, &m.LikeID, &m.ScheduledBy, &m.Date, &m.Time, &m.Notes, &m.CreatedAt); err != nil {
			return err
		}
		backup.Meetings = append(backup.Meetings, m)
	}
	return rows.Err()
}

func (s *BackupService) importGuardians(guardians []GuardianBackup) error {
	log.Printf("Importing %d guardians...", len(guardians))
	for _, g := range guardians {
		query := "INSERT INTO guardians (id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, g.ID, g.Email, g.PasswordHash, g.Name, g.OAuthProvider, g.OAuthSubject, g.CreatedAt, g.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import guardian %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importChildren(children []ChildBackup) error {
	log.Printf("Importing %d children...", len(children))
	for _, c := range children {
		query := "INSERT INTO children (id, guardian_id, name, age, bio, avatar, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, c.ID, c.GuardianID, c.Name, c.Age, c.Bio, c.Avatar, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import child %d: %w", c.ID, err)
		}

		for _, valueID := range c.Attributes {
			attrQuery := "INSERT INTO child_attributes (child_id, value_id) VALUES (?, ?)"
			if _, err := s.db.Exec(attrQuery, c.ID, valueID); err != nil {
				return fmt.Errorf("failed to import attribute %d for child %d: %w", valueID, c.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importLikes(likes []LikeBackup) error {
	log.Printf("Importing %d likes...", len(likes))
	for _, l := range likes {
		var approvedAt interface{}
		if l.ApprovedAt != nil {
			approvedAt = *l.ApprovedAt
		}
		query := "INSERT INTO child_likes (id, from_child, to_child, status, created_at, approved_at) VALUES (?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, l.ID, l.FromChild, l.ToChild, l.Status, l.CreatedAt, approvedAt)
		if err != nil {
			return fmt.Errorf("failed to import like %d: %w", l.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importMeetings(meetings []MeetingBackup) error {
	log.Printf("Importing %d meetings...", len(meetings))
	for _, m := range meetings {
		query := "INSERT INTO meetings (id, like_id, scheduled_by, meeting_date, meeting_time, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, m.ID, m.LikeID, m.ScheduledBy, m.Date, m.Time, m.Notes, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import meeting %d: %w", m.ID, err)
		}
	}
	return nil
}
