package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gamepal/internal/models"
	"gamepal/internal/repository"
)

var (
	ErrLikeNotFound     = errors.New("like not found")
	ErrLikeConflict     = errors.New("like was already decided")
	ErrSameGuardian     = errors.New("cannot like a child of the same guardian")
	ErrNotApprovedMatch = errors.New("not an approved match")
)

// LikeService owns the like lifecycle: pending on creation, then exactly
// one of approved or rejected, decided by the receiving guardian. Approved
// likes are final.
type LikeService struct {
	likeRepo     *repository.LikeRepository
	childRepo    *repository.ChildRepository
	guardianRepo *repository.GuardianRepository
	feed         *LikeFeed
	emails       *EmailService
}

// NewLikeService creates a new like service
func NewLikeService(likeRepo *repository.LikeRepository, childRepo *repository.ChildRepository, guardianRepo *repository.GuardianRepository, feed *LikeFeed, emails *EmailService) *LikeService {
	return &LikeService{
		likeRepo:     likeRepo,
		childRepo:    childRepo,
		guardianRepo: guardianRepo,
		feed:         feed,
		emails:       emails,
	}
}

// SendLike creates a pending like from one child to another. Sending again
// while a like is pending or approved is a no-op returning the existing
// row; a previously rejected pair becomes a fresh pending request.
func (s *LikeService) SendLike(ctx context.Context, guardianID, fromChildID, toChildID int64) (*models.Like, error) {
	fromChild, err := s.childRepo.GetChildByID(fromChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sending child: %w", err)
	}
	if fromChild == nil {
		return nil, ErrChildNotFound
	}
	if fromChild.GuardianID != guardianID {
		return nil, ErrNotChildGuardian
	}

	toChild, err := s.childRepo.GetChildByID(toChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get target child: %w", err)
	}
	if toChild == nil {
		return nil, ErrChildNotFound
	}
	if toChild.GuardianID == guardianID {
		return nil, ErrSameGuardian
	}

	existing, err := s.likeRepo.GetLikeByPair(fromChildID, toChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing like: %w", err)
	}

	var like *models.Like
	switch {
	case existing != nil && existing.IsActive():
		return existing, nil
	case existing != nil:
		recycled, err := s.likeRepo.RecycleRejectedLike(existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to recycle like: %w", err)
		}
		if !recycled {
			// Lost a race with a concurrent send; the row is active again
			like, err = s.likeRepo.GetLikeByID(existing.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reload like: %w", err)
			}
			if like == nil {
				return nil, ErrLikeNotFound
			}
			return like, nil
		}
		like, err = s.likeRepo.GetLikeByID(existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload like: %w", err)
		}
	default:
		like, err = s.likeRepo.CreateLike(fromChildID, toChildID)
		if err != nil {
			// A concurrent send may have inserted the row first
			if dup, dupErr := s.likeRepo.GetLikeByPair(fromChildID, toChildID); dupErr == nil && dup != nil {
				return dup, nil
			}
			return nil, fmt.Errorf("failed to create like: %w", err)
		}
	}

	s.feed.Publish(toChild.GuardianID, LikeEvent{
		Kind:      LikeEventReceived,
		LikeID:    like.ID,
		Status:    like.Status,
		ChildName: toChild.Name,
		OtherName: fromChild.Name,
	})
	s.notifyLikeReceived(ctx, toChild, fromChild)

	return like, nil
}

// WithdrawLike removes a pending like sent by one of the guardian's
// children. Only pending likes can be withdrawn.
func (s *LikeService) WithdrawLike(guardianID, likeID int64) error {
	like, fromChild, toChild, err := s.loadLikeParticipants(likeID)
	if err != nil {
		return err
	}
	if fromChild.GuardianID != guardianID {
		return ErrNotChildGuardian
	}

	deleted, err := s.likeRepo.DeleteLikeIfPending(likeID)
	if err != nil {
		return fmt.Errorf("failed to withdraw like: %w", err)
	}
	if !deleted {
		return ErrLikeConflict
	}

	s.feed.Publish(toChild.GuardianID, LikeEvent{
		Kind:      LikeEventWithdrawn,
		LikeID:    like.ID,
		ChildName: toChild.Name,
		OtherName: fromChild.Name,
	})
	return nil
}

// ApproveLike accepts a pending like aimed at one of the guardian's
// children. Exactly one of approve or decline can ever win: the repository
// update only fires while the row is still pending.
func (s *LikeService) ApproveLike(ctx context.Context, guardianID, likeID int64) error {
	return s.resolveLike(ctx, guardianID, likeID, models.LikeStatusApproved)
}

// DeclineLike rejects a pending like aimed at one of the guardian's
// children
func (s *LikeService) DeclineLike(ctx context.Context, guardianID, likeID int64) error {
	return s.resolveLike(ctx, guardianID, likeID, models.LikeStatusRejected)
}

func (s *LikeService) resolveLike(ctx context.Context, guardianID, likeID int64, status models.LikeStatus) error {
	like, fromChild, toChild, err := s.loadLikeParticipants(likeID)
	if err != nil {
		return err
	}
	if toChild.GuardianID != guardianID {
		return ErrNotChildGuardian
	}

	resolved, err := s.likeRepo.ResolveLikeIfPending(likeID, status)
	if err != nil {
		return fmt.Errorf("failed to resolve like: %w", err)
	}
	if !resolved {
		return ErrLikeConflict
	}

	if status == models.LikeStatusApproved {
		s.feed.Publish(fromChild.GuardianID, LikeEvent{
			Kind:      LikeEventApproved,
			LikeID:    like.ID,
			Status:    status,
			ChildName: fromChild.Name,
			OtherName: toChild.Name,
		})
		s.notifyLikeApproved(ctx, fromChild, toChild)
	} else {
		// The sender sees the request disappear but is not told why
		s.feed.Publish(fromChild.GuardianID, LikeEvent{
			Kind:   LikeEventRejected,
			LikeID: like.ID,
			Status: status,
		})
	}
	return nil
}

// GetOutgoingPending lists pending likes sent by the guardian's children
func (s *LikeService) GetOutgoingPending(guardianID int64) ([]models.LikeView, error) {
	views, err := s.likeRepo.GetOutgoingPending(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outgoing likes: %w", err)
	}
	return views, nil
}

// GetIncomingPending lists pending likes awaiting the guardian's decision
func (s *LikeService) GetIncomingPending(guardianID int64) ([]models.LikeView, error) {
	views, err := s.likeRepo.GetIncomingPending(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get incoming likes: %w", err)
	}
	return views, nil
}

// GetApprovedMatches lists the guardian's approved matches with the other
// family's contact details
func (s *LikeService) GetApprovedMatches(guardianID int64) ([]models.LikeView, error) {
	views, err := s.likeRepo.GetApprovedMatches(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved matches: %w", err)
	}
	return views, nil
}

// Notification is one row on the notifications page: a like event the
// guardian should know about.
type Notification struct {
	Kind string
	When time.Time
	Like models.LikeView
}

// GetNotifications merges incoming pending requests and approvals into one
// reverse-chronological activity list for the guardian.
func (s *LikeService) GetNotifications(guardianID int64) ([]Notification, error) {
	incoming, err := s.likeRepo.GetIncomingPending(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get incoming likes: %w", err)
	}
	approved, err := s.likeRepo.GetApprovedMatches(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved matches: %w", err)
	}

	notifications := make([]Notification, 0, len(incoming)+len(approved))
	for _, view := range incoming {
		notifications = append(notifications, Notification{
			Kind: LikeEventReceived,
			When: view.CreatedAt,
			Like: view,
		})
	}
	for _, view := range approved {
		when := view.CreatedAt
		if view.ApprovedAt != nil {
			when = *view.ApprovedAt
		}
		notifications = append(notifications, Notification{
			Kind: LikeEventApproved,
			When: when,
			Like: view,
		})
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].When.After(notifications[j].When)
	})
	return notifications, nil
}

// GetApprovedLike loads an approved like the guardian participates in.
// Used to gate meeting scheduling.
func (s *LikeService) GetApprovedLike(guardianID, likeID int64) (*models.Like, *models.Child, *models.Child, error) {
	like, fromChild, toChild, err := s.loadLikeParticipants(likeID)
	if err != nil {
		return nil, nil, nil, err
	}
	if fromChild.GuardianID != guardianID && toChild.GuardianID != guardianID {
		return nil, nil, nil, ErrNotChildGuardian
	}
	if like.Status != models.LikeStatusApproved {
		return nil, nil, nil, ErrNotApprovedMatch
	}
	return like, fromChild, toChild, nil
}

func (s *LikeService) loadLikeParticipants(likeID int64) (*models.Like, *models.Child, *models.Child, error) {
	like, err := s.likeRepo.GetLikeByID(likeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get like: %w", err)
	}
	if like == nil {
		return nil, nil, nil, ErrLikeNotFound
	}

	fromChild, err := s.childRepo.GetChildByID(like.FromChildID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get sending child: %w", err)
	}
	toChild, err := s.childRepo.GetChildByID(like.ToChildID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get target child: %w", err)
	}
	if fromChild == nil || toChild == nil {
		return nil, nil, nil, ErrLikeNotFound
	}
	return like, fromChild, toChild, nil
}

// Email notifications are best effort: a mail failure never fails the
// like operation itself.

func (s *LikeService) notifyLikeReceived(ctx context.Context, toChild, fromChild *models.Child) {
	if s.emails == nil || !s.emails.IsEnabled() {
		return
	}
	guardian, err := s.guardianRepo.GetGuardianByID(toChild.GuardianID)
	if err != nil || guardian == nil {
		log.Printf("like notification skipped: guardian %d lookup failed: %v", toChild.GuardianID, err)
		return
	}
	if err := s.emails.SendLikeReceivedEmail(ctx, guardian.Email, guardian.Name, toChild.Name, fromChild.Name); err != nil {
		log.Printf("Failed to send like notification: %v", err)
	}
}

func (s *LikeService) notifyLikeApproved(ctx context.Context, fromChild, toChild *models.Child) {
	if s.emails == nil || !s.emails.IsEnabled() {
		return
	}
	guardian, err := s.guardianRepo.GetGuardianByID(fromChild.GuardianID)
	if err != nil || guardian == nil {
		log.Printf("approval notification skipped: guardian %d lookup failed: %v", fromChild.GuardianID, err)
		return
	}
	if err := s.emails.SendLikeApprovedEmail(ctx, guardian.Email, guardian.Name, fromChild.Name, toChild.Name); err != nil {
		log.Printf("Failed to send approval notification: %v", err)
	}
}
