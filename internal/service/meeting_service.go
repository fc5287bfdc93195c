package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gamepal/internal/models"
	"gamepal/internal/repository"
)

var (
	ErrMeetingNotFound   = errors.New("meeting not found")
	ErrInvalidMeetingDay = errors.New("meeting date must be in the future")
)

// MeetingService schedules playdates against approved matches
type MeetingService struct {
	meetingRepo  *repository.MeetingRepository
	likeService  *LikeService
	guardianRepo *repository.GuardianRepository
	emails       *EmailService
}

// NewMeetingService creates a new meeting service
func NewMeetingService(meetingRepo *repository.MeetingRepository, likeService *LikeService, guardianRepo *repository.GuardianRepository, emails *EmailService) *MeetingService {
	return &MeetingService{
		meetingRepo:  meetingRepo,
		likeService:  likeService,
		guardianRepo: guardianRepo,
		emails:       emails,
	}
}

// ScheduleMeeting creates a playdate for an approved match the guardian
// participates in, and notifies the other family
func (s *MeetingService) ScheduleMeeting(ctx context.Context, guardianID, likeID int64, date, timeOfDay, notes string) (*models.Meeting, error) {
	_, fromChild, toChild, err := s.likeService.GetApprovedLike(guardianID, likeID)
	if err != nil {
		return nil, err
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid meeting date %q: %w", date, err)
	}
	// Compare calendar days in the server's local zone; parsed is a UTC
	// midnight, so truncating the wall clock would shift "today" in zones
	// ahead of UTC.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.Before(today) {
		return nil, ErrInvalidMeetingDay
	}
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return nil, fmt.Errorf("invalid meeting time %q: %w", timeOfDay, err)
	}

	meeting, err := s.meetingRepo.CreateMeeting(&models.Meeting{
		LikeID:      likeID,
		ScheduledBy: guardianID,
		Date:        date,
		Time:        timeOfDay,
		Notes:       notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule meeting: %w", err)
	}

	s.notifyOtherGuardian(ctx, guardianID, fromChild, toChild, date, timeOfDay, notes)

	return meeting, nil
}

// GetMeetings lists the playdates for an approved match the guardian
// participates in
func (s *MeetingService) GetMeetings(guardianID, likeID int64) ([]models.Meeting, error) {
	if _, _, _, err := s.likeService.GetApprovedLike(guardianID, likeID); err != nil {
		return nil, err
	}
	meetings, err := s.meetingRepo.GetMeetingsForLike(likeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meetings: %w", err)
	}
	return meetings, nil
}

// CancelMeeting deletes a scheduled playdate. Either guardian of the
// match may cancel, not just the one who scheduled it.
func (s *MeetingService) CancelMeeting(guardianID, meetingID int64) error {
	meeting, err := s.meetingRepo.GetMeetingByID(meetingID)
	if err != nil {
		return fmt.Errorf("failed to get meeting: %w", err)
	}
	if meeting == nil {
		return ErrMeetingNotFound
	}

	if _, _, _, err := s.likeService.GetApprovedLike(guardianID, meeting.LikeID); err != nil {
		return err
	}

	if err := s.meetingRepo.DeleteMeeting(meetingID); err != nil {
		return fmt.Errorf("failed to cancel meeting: %w", err)
	}
	return nil
}

func (s *MeetingService) notifyOtherGuardian(ctx context.Context, schedulerID int64, fromChild, toChild *models.Child, date, timeOfDay, notes string) {
	if s.emails == nil || !s.emails.IsEnabled() {
		return
	}

	otherGuardianID := fromChild.GuardianID
	if otherGuardianID == schedulerID {
		otherGuardianID = toChild.GuardianID
	}

	scheduler, err := s.guardianRepo.GetGuardianByID(schedulerID)
	if err != nil || scheduler == nil {
		log.Printf("meeting notification skipped: scheduler %d lookup failed: %v", schedulerID, err)
		return
	}
	other, err := s.guardianRepo.GetGuardianByID(otherGuardianID)
	if err != nil || other == nil {
		log.Printf("meeting notification skipped: guardian %d lookup failed: %v", otherGuardianID, err)
		return
	}

	if err := s.emails.SendMeetingScheduledEmail(ctx, other.Email, other.Name, scheduler.Name, date, timeOfDay, notes); err != nil {
		log.Printf("Failed to send meeting notification: %v", err)
	}
}
