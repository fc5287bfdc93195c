package repository

import (
	"database/sql"
	"fmt"
	"time"

	"gamepal/internal/database"
	"gamepal/internal/models"
)

// MeetingRepository handles database operations for playdate meetings
type MeetingRepository struct {
	db *database.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *database.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// CreateMeeting schedules a meeting against an approved match
func (r *MeetingRepository) CreateMeeting(meeting *models.Meeting) (*models.Meeting, error) {
	query := `
		INSERT INTO meetings (like_id, scheduled_by, meeting_date, meeting_time, notes)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, meeting.LikeID, meeting.ScheduledBy, meeting.Date, meeting.Time, meeting.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	created := *meeting
	created.ID = id
	created.CreatedAt = time.Now()
	return &created, nil
}

// GetMeetingByID retrieves a single meeting
func (r *MeetingRepository) GetMeetingByID(meetingID int64) (*models.Meeting, error) {
	query := `
		SELECT id, like_id, scheduled_by, meeting_date, meeting_time, notes, created_at
		FROM meetings
		WHERE id = ?
	`
	meeting := &models.Meeting{}
	err := r.db.QueryRow(query, meetingID).Scan(
		&meeting.ID,
		&meeting.LikeID,
		&meeting.ScheduledBy,
		&meeting.Date,
		&meeting.Time,
		&meeting.Notes,
		&meeting.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// GetMeetingsForLike lists meetings scheduled against a match, soonest first
func (r *MeetingRepository) GetMeetingsForLike(likeID int64) ([]models.Meeting, error) {
	query := `
		SELECT id, like_id, scheduled_by, meeting_date, meeting_time, notes, created_at
		FROM meetings
		WHERE like_id = ?
		ORDER BY meeting_date ASC, meeting_time ASC
	`
	rows, err := r.db.Query(query, likeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(
			&m.ID,
			&m.LikeID,
			&m.ScheduledBy,
			&m.Date,
			&m.Time,
			&m.Notes,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meeting rows: %w", err)
	}

	return meetings, nil
}

// DeleteMeeting cancels a scheduled meeting
func (r *MeetingRepository) DeleteMeeting(meetingID int64) error {
	if _, err := r.db.Exec("DELETE FROM meetings WHERE id = ?", meetingID); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}
