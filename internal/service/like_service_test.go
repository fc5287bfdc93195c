package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gamepal/internal/database"
	"gamepal/internal/models"
	"gamepal/internal/repository"
)

// likeFixture wires the like and meeting services against a real SQLite
// database so the conditional updates behind the approval workflow are
// exercised end to end.
type likeFixture struct {
	likes    *LikeService
	meetings *MeetingService

	guardianA *models.Guardian
	guardianB *models.Guardian
	childA    *models.Child
	childB    *models.Child
	childA2   *models.Child
}

func newLikeFixture(t *testing.T) *likeFixture {
	t.Helper()

	db, err := database.InitializeSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	guardianRepo := repository.NewGuardianRepository(db)
	childRepo := repository.NewChildRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	// Empty from-address leaves the email service disabled
	emails, err := NewEmailService("", "", "", "", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	likes := NewLikeService(likeRepo, childRepo, guardianRepo, NewLikeFeed(), emails)
	meetings := NewMeetingService(meetingRepo, likes, guardianRepo, emails)

	f := &likeFixture{likes: likes, meetings: meetings}

	f.guardianA, err = guardianRepo.CreateGuardian("alice@example.com", "hash", "Alice")
	if err != nil {
		t.Fatalf("Failed to create guardian: %v", err)
	}
	f.guardianB, err = guardianRepo.CreateGuardian("bob@example.com", "hash", "Bob")
	if err != nil {
		t.Fatalf("Failed to create guardian: %v", err)
	}

	f.childA = f.createChild(t, childRepo, f.guardianA.ID, "Ann")
	f.childB = f.createChild(t, childRepo, f.guardianB.ID, "Ben")
	f.childA2 = f.createChild(t, childRepo, f.guardianA.ID, "Amy")

	return f
}

func (f *likeFixture) createChild(t *testing.T, repo *repository.ChildRepository, guardianID int64, name string) *models.Child {
	t.Helper()
	child, err := repo.CreateChild(&models.Child{
		GuardianID: guardianID,
		Name:       name,
		Age:        9,
		Avatar:     models.AvatarOptions[0],
		Attributes: models.AttributeSets{},
	})
	if err != nil {
		t.Fatalf("Failed to create child %s: %v", name, err)
	}
	return child
}

func TestSendLikeCreatesPending(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}
	if like.Status != models.LikeStatusPending {
		t.Errorf("Expected status pending, got %s", like.Status)
	}

	incoming, err := f.likes.GetIncomingPending(f.guardianB.ID)
	if err != nil {
		t.Fatalf("GetIncomingPending failed: %v", err)
	}
	if len(incoming) != 1 {
		t.Fatalf("Expected 1 incoming like, got %d", len(incoming))
	}
	if incoming[0].Direction != models.DirectionIncoming {
		t.Errorf("Expected incoming direction, got %s", incoming[0].Direction)
	}
	if incoming[0].GuardianEmail != "" || incoming[0].GuardianName != "" {
		t.Error("Pending like must not expose the other guardian's contact details")
	}

	outgoing, err := f.likes.GetOutgoingPending(f.guardianA.ID)
	if err != nil {
		t.Fatalf("GetOutgoingPending failed: %v", err)
	}
	if len(outgoing) != 1 {
		t.Fatalf("Expected 1 outgoing like, got %d", len(outgoing))
	}
	if outgoing[0].Direction != models.DirectionOutgoing {
		t.Errorf("Expected outgoing direction, got %s", outgoing[0].Direction)
	}
	if outgoing[0].MyChild.ID != f.childA.ID || outgoing[0].OtherChild.ID != f.childB.ID {
		t.Error("Outgoing view has wrong children")
	}
}

func TestSendLikeIdempotentWhileActive(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	first, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}
	second, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("Repeated SendLike failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected the existing like %d, got %d", first.ID, second.ID)
	}

	incoming, err := f.likes.GetIncomingPending(f.guardianB.ID)
	if err != nil {
		t.Fatalf("GetIncomingPending failed: %v", err)
	}
	if len(incoming) != 1 {
		t.Errorf("Expected 1 incoming like after duplicate send, got %d", len(incoming))
	}
}

func TestSendLikeRejectsSameGuardian(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)

	_, err := f.likes.SendLike(context.Background(), f.guardianA.ID, f.childA.ID, f.childA2.ID)
	if !errors.Is(err, ErrSameGuardian) {
		t.Errorf("Expected ErrSameGuardian, got %v", err)
	}
}

func TestSendLikeRequiresOwnChild(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)

	_, err := f.likes.SendLike(context.Background(), f.guardianB.ID, f.childA.ID, f.childB.ID)
	if !errors.Is(err, ErrNotChildGuardian) {
		t.Errorf("Expected ErrNotChildGuardian, got %v", err)
	}
}

func TestApproveReleasesContactDetails(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}

	if err := f.likes.ApproveLike(ctx, f.guardianB.ID, like.ID); err != nil {
		t.Fatalf("ApproveLike failed: %v", err)
	}

	// Both guardians now see the match, with the other guardian's contact
	matchesA, err := f.likes.GetApprovedMatches(f.guardianA.ID)
	if err != nil {
		t.Fatalf("GetApprovedMatches failed: %v", err)
	}
	if len(matchesA) != 1 {
		t.Fatalf("Expected 1 approved match for sender, got %d", len(matchesA))
	}
	if matchesA[0].GuardianEmail != "bob@example.com" || matchesA[0].GuardianName != "Bob" {
		t.Errorf("Expected Bob's contact details, got %q <%q>", matchesA[0].GuardianName, matchesA[0].GuardianEmail)
	}
	if matchesA[0].ApprovedAt == nil {
		t.Error("Expected ApprovedAt to be set on an approved match")
	}

	matchesB, err := f.likes.GetApprovedMatches(f.guardianB.ID)
	if err != nil {
		t.Fatalf("GetApprovedMatches failed: %v", err)
	}
	if len(matchesB) != 1 {
		t.Fatalf("Expected 1 approved match for recipient, got %d", len(matchesB))
	}
	if matchesB[0].GuardianEmail != "alice@example.com" {
		t.Errorf("Expected Alice's email, got %q", matchesB[0].GuardianEmail)
	}

	// Approved likes leave the pending queues
	incoming, err := f.likes.GetIncomingPending(f.guardianB.ID)
	if err != nil {
		t.Fatalf("GetIncomingPending failed: %v", err)
	}
	if len(incoming) != 0 {
		t.Errorf("Expected no incoming pending after approval, got %d", len(incoming))
	}
}

func TestOnlyRecipientGuardianCanDecide(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}

	if err := f.likes.ApproveLike(ctx, f.guardianA.ID, like.ID); !errors.Is(err, ErrNotChildGuardian) {
		t.Errorf("Expected ErrNotChildGuardian for sender approving, got %v", err)
	}
	if err := f.likes.DeclineLike(ctx, f.guardianA.ID, like.ID); !errors.Is(err, ErrNotChildGuardian) {
		t.Errorf("Expected ErrNotChildGuardian for sender declining, got %v", err)
	}
}

func TestDecisionIsFinal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}

	if err := f.likes.ApproveLike(ctx, f.guardianB.ID, like.ID); err != nil {
		t.Fatalf("ApproveLike failed: %v", err)
	}

	if err := f.likes.DeclineLike(ctx, f.guardianB.ID, like.ID); !errors.Is(err, ErrLikeConflict) {
		t.Errorf("Expected ErrLikeConflict declining an approved like, got %v", err)
	}
	if err := f.likes.ApproveLike(ctx, f.guardianB.ID, like.ID); !errors.Is(err, ErrLikeConflict) {
		t.Errorf("Expected ErrLikeConflict re-approving, got %v", err)
	}
}

func TestDeclineThenResendRecyclesRow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}
	if err := f.likes.DeclineLike(ctx, f.guardianB.ID, like.ID); err != nil {
		t.Fatalf("DeclineLike failed: %v", err)
	}

	// A rejected pair can be asked again; the row is reused
	resent, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike after decline failed: %v", err)
	}
	if resent.ID != like.ID {
		t.Errorf("Expected the recycled row %d, got %d", like.ID, resent.ID)
	}
	if resent.Status != models.LikeStatusPending {
		t.Errorf("Expected status pending after resend, got %s", resent.Status)
	}
	if resent.ApprovedAt != nil {
		t.Error("Expected ApprovedAt cleared on recycled like")
	}
}

func TestWithdrawOnlyWhilePending(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}

	// Recipient cannot withdraw someone else's request
	if err := f.likes.WithdrawLike(f.guardianB.ID, like.ID); !errors.Is(err, ErrNotChildGuardian) {
		t.Errorf("Expected ErrNotChildGuardian, got %v", err)
	}

	if err := f.likes.WithdrawLike(f.guardianA.ID, like.ID); err != nil {
		t.Fatalf("WithdrawLike failed: %v", err)
	}

	if err := f.likes.WithdrawLike(f.guardianA.ID, like.ID); !errors.Is(err, ErrLikeNotFound) {
		t.Errorf("Expected ErrLikeNotFound after withdraw, got %v", err)
	}

	// Approved likes cannot be withdrawn
	like2, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}
	if err := f.likes.ApproveLike(ctx, f.guardianB.ID, like2.ID); err != nil {
		t.Fatalf("ApproveLike failed: %v", err)
	}
	if err := f.likes.WithdrawLike(f.guardianA.ID, like2.ID); !errors.Is(err, ErrLikeConflict) {
		t.Errorf("Expected ErrLikeConflict withdrawing approved like, got %v", err)
	}
}

func TestMeetingsRequireApprovedMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}

	_, err = f.meetings.ScheduleMeeting(ctx, f.guardianA.ID, like.ID, "2030-06-01", "15:00", "park")
	if !errors.Is(err, ErrNotApprovedMatch) {
		t.Errorf("Expected ErrNotApprovedMatch before approval, got %v", err)
	}

	if err := f.likes.ApproveLike(ctx, f.guardianB.ID, like.ID); err != nil {
		t.Fatalf("ApproveLike failed: %v", err)
	}

	meeting, err := f.meetings.ScheduleMeeting(ctx, f.guardianA.ID, like.ID, "2030-06-01", "15:00", "park")
	if err != nil {
		t.Fatalf("ScheduleMeeting failed: %v", err)
	}
	if meeting.ScheduledBy != f.guardianA.ID {
		t.Errorf("Expected meeting scheduled by %d, got %d", f.guardianA.ID, meeting.ScheduledBy)
	}

	// Either guardian of the match can see and cancel the meeting
	listed, err := f.meetings.GetMeetings(f.guardianB.ID, like.ID)
	if err != nil {
		t.Fatalf("GetMeetings failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("Expected 1 meeting, got %d", len(listed))
	}

	if err := f.meetings.CancelMeeting(f.guardianB.ID, meeting.ID); err != nil {
		t.Fatalf("CancelMeeting by other guardian failed: %v", err)
	}

	listed, err = f.meetings.GetMeetings(f.guardianA.ID, like.ID)
	if err != nil {
		t.Fatalf("GetMeetings failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected no meetings after cancel, got %d", len(listed))
	}
}

func TestMeetingRejectsPastDate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}
	if err := f.likes.ApproveLike(ctx, f.guardianB.ID, like.ID); err != nil {
		t.Fatalf("ApproveLike failed: %v", err)
	}

	_, err = f.meetings.ScheduleMeeting(ctx, f.guardianA.ID, like.ID, "2020-01-01", "15:00", "")
	if !errors.Is(err, ErrInvalidMeetingDay) {
		t.Errorf("Expected ErrInvalidMeetingDay for past date, got %v", err)
	}

	// Today is a valid meeting day regardless of the server's timezone
	today := time.Now().Format("2006-01-02")
	if _, err := f.meetings.ScheduleMeeting(ctx, f.guardianA.ID, like.ID, today, "23:00", ""); err != nil {
		t.Errorf("Expected scheduling for today to succeed, got %v", err)
	}
}

func TestGetNotifications(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	f := newLikeFixture(t)
	ctx := context.Background()

	like, err := f.likes.SendLike(ctx, f.guardianA.ID, f.childA.ID, f.childB.ID)
	if err != nil {
		t.Fatalf("SendLike failed: %v", err)
	}

	notes, err := f.likes.GetNotifications(f.guardianB.ID)
	if err != nil {
		t.Fatalf("GetNotifications failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Expected 1 notification for recipient, got %d", len(notes))
	}
	if notes[0].Kind != LikeEventReceived {
		t.Errorf("Expected kind %s, got %s", LikeEventReceived, notes[0].Kind)
	}

	if err := f.likes.ApproveLike(ctx, f.guardianB.ID, like.ID); err != nil {
		t.Fatalf("ApproveLike failed: %v", err)
	}

	// The sender learns of the approval
	notes, err = f.likes.GetNotifications(f.guardianA.ID)
	if err != nil {
		t.Fatalf("GetNotifications failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Expected 1 notification for sender, got %d", len(notes))
	}
	if notes[0].Kind != LikeEventApproved {
		t.Errorf("Expected kind %s, got %s", LikeEventApproved, notes[0].Kind)
	}
}
