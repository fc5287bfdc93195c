package service

import (
	"fmt"

	"gamepal/internal/matching"
	"gamepal/internal/models"
	"gamepal/internal/repository"
)

// Suggestion is one scored candidate on the matchmaking page, decorated
// with the active like status toward that candidate, if any
type Suggestion struct {
	matching.MatchResult
	LikeStatus models.LikeStatus
}

// MatchService produces ranked match suggestions for a child
type MatchService struct {
	childRepo *repository.ChildRepository
	likeRepo  *repository.LikeRepository
}

// NewMatchService creates a new match service
func NewMatchService(childRepo *repository.ChildRepository, likeRepo *repository.LikeRepository) *MatchService {
	return &MatchService{
		childRepo: childRepo,
		likeRepo:  likeRepo,
	}
}

// GetSuggestions ranks every other family's child against the subject.
// The subject must belong to the calling guardian; candidates from the
// same guardian never appear.
func (s *MatchService) GetSuggestions(guardianID, childID int64, filters matching.Filters) ([]Suggestion, error) {
	subject, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if subject == nil {
		return nil, ErrChildNotFound
	}
	if subject.GuardianID != guardianID {
		return nil, ErrNotChildGuardian
	}

	candidates, err := s.childRepo.ListChildrenExcluding(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	results := matching.Score(*subject, candidates, filters)

	statuses, err := s.likeRepo.GetOutgoingStatuses(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get like statuses: %w", err)
	}

	suggestions := make([]Suggestion, len(results))
	for i, result := range results {
		suggestions[i] = Suggestion{
			MatchResult: result,
			LikeStatus:  statuses[result.Child.ID],
		}
	}
	return suggestions, nil
}
