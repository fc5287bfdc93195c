package service

import (
	"errors"
	"fmt"

	"gamepal/internal/models"
	"gamepal/internal/repository"
	"gamepal/internal/validation"
)

var (
	ErrChildNotFound    = errors.New("child not found")
	ErrNotChildGuardian = errors.New("child belongs to another guardian")
	ErrUnknownAttribute = errors.New("unknown attribute value")
)

// ChildService handles child profile business logic
type ChildService struct {
	childRepo    *repository.ChildRepository
	taxonomyRepo *repository.TaxonomyRepository
}

// NewChildService creates a new child service
func NewChildService(childRepo *repository.ChildRepository, taxonomyRepo *repository.TaxonomyRepository) *ChildService {
	return &ChildService{
		childRepo:    childRepo,
		taxonomyRepo: taxonomyRepo,
	}
}

// GetTaxonomy returns the full attribute taxonomy, grouped by category
func (s *ChildService) GetTaxonomy() (models.Taxonomy, error) {
	taxonomy, err := s.taxonomyRepo.GetTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("failed to get taxonomy: %w", err)
	}
	return taxonomy, nil
}

// CreateChild creates a child profile for a guardian
func (s *ChildService) CreateChild(guardianID int64, name string, age int, bio, avatar string, attrs models.AttributeSets) (*models.Child, error) {
	if err := s.validateProfile(name, age, bio, avatar, attrs); err != nil {
		return nil, err
	}
	if avatar == "" {
		avatar = models.AvatarOptions[0]
	}

	child := &models.Child{
		GuardianID: guardianID,
		Name:       name,
		Age:        age,
		Bio:        bio,
		Avatar:     avatar,
		Attributes: attrs,
	}
	created, err := s.childRepo.CreateChild(child)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	return created, nil
}

// GetOwnedChild retrieves a child and verifies it belongs to the guardian
func (s *ChildService) GetOwnedChild(guardianID, childID int64) (*models.Child, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	if child.GuardianID != guardianID {
		return nil, ErrNotChildGuardian
	}
	return child, nil
}

// GetGuardianChildren retrieves all of a guardian's children
func (s *ChildService) GetGuardianChildren(guardianID int64) ([]models.Child, error) {
	children, err := s.childRepo.GetGuardianChildren(guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get children: %w", err)
	}
	return children, nil
}

// UpdateChild replaces a child's profile and attribute selections
func (s *ChildService) UpdateChild(guardianID, childID int64, name string, age int, bio, avatar string, attrs models.AttributeSets) (*models.Child, error) {
	child, err := s.GetOwnedChild(guardianID, childID)
	if err != nil {
		return nil, err
	}

	if err := s.validateProfile(name, age, bio, avatar, attrs); err != nil {
		return nil, err
	}
	if avatar == "" {
		avatar = child.Avatar
	}

	child.Name = name
	child.Age = age
	child.Bio = bio
	child.Avatar = avatar
	child.Attributes = attrs
	if err := s.childRepo.UpdateChild(child); err != nil {
		return nil, fmt.Errorf("failed to update child: %w", err)
	}
	return child, nil
}

// DeleteChild removes a child profile and, via cascade, its likes
func (s *ChildService) DeleteChild(guardianID, childID int64) error {
	if _, err := s.GetOwnedChild(guardianID, childID); err != nil {
		return err
	}
	if err := s.childRepo.DeleteChild(childID); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}

// validateProfile checks profile fields and resolves every attribute id
// against the taxonomy
func (s *ChildService) validateProfile(name string, age int, bio, avatar string, attrs models.AttributeSets) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	if err := validation.ValidateChildAge(age); err != nil {
		return err
	}
	if err := validation.ValidateChildBio(bio); err != nil {
		return err
	}
	if err := validation.ValidateAvatar(avatar); err != nil {
		return err
	}
	if err := validation.ValidateAttributeSets(attrs); err != nil {
		return err
	}

	taxonomy, err := s.taxonomyRepo.GetTaxonomy()
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}
	for category, ids := range attrs {
		for _, id := range ids {
			value, ok := taxonomy.Lookup(id)
			if !ok {
				return fmt.Errorf("%w: %d", ErrUnknownAttribute, id)
			}
			if value.Category != category {
				return fmt.Errorf("%w: %d is not a %s value", ErrUnknownAttribute, id, category)
			}
		}
	}
	return nil
}
