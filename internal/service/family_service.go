package service

import (
	"errors"
	"fmt"

	"wishtree/internal/models"
	"wishtree/internal/repository"
	"wishtree/internal/security"
	"wishtree/internal/validation"
)

var (
	ErrFamilyNotFound  = errors.New("no family found for that invite code")
	ErrNotFamilyMember = errors.New("user is not a member of this family")
)

// inviteCodeAttempts bounds the collision-regenerate loop. With over
// four billion possible codes collisions are vanishingly rare; the bound
// exists so a broken store can't spin forever.
const inviteCodeAttempts = 5

// FamilyStore is the persistence surface FamilyService needs
type FamilyStore interface {
	CreateFamily(name, inviteCode string, creatorID int64) (*models.Family, error)
	GetFamilyByID(familyID int64) (*models.Family, error)
	GetFamilyByCode(inviteCode string) (*models.Family, error)
	GetUserFamilies(userID int64) ([]models.FamilySummary, error)
	GetMembership(familyID, userID int64) (*models.FamilyMember, error)
	AddMember(familyID, userID int64) error
	ListMembers(familyID int64) ([]models.Member, error)
}

// FamilyService handles family and membership business logic
type FamilyService struct {
	families FamilyStore
}

// NewFamilyService creates a new family service
func NewFamilyService(families FamilyStore) *FamilyService {
	return &FamilyService{families: families}
}

// CreateFamily creates a family with a fresh invite code and the creator
// as first member. Codes are checked for collisions and regenerated
// before insert; the uniqueness constraint backstops the race.
func (s *FamilyService) CreateFamily(name string, creatorID int64) (*models.Family, error) {
	if err := validation.ValidateFamilyName(name); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code := security.GenerateInviteCode()

		existing, err := s.families.GetFamilyByCode(code)
		if err != nil {
			return nil, fmt.Errorf("failed to check invite code: %w", err)
		}
		if existing != nil {
			continue
		}

		family, err := s.families.CreateFamily(name, code, creatorID)
		if errors.Is(err, repository.ErrDuplicate) {
			// Someone claimed the code between check and insert; retry
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create family: %w", err)
		}
		return family, nil
	}

	return nil, fmt.Errorf("could not allocate a unique invite code: %w", lastErr)
}

// JoinFamily redeems an invite code, case-insensitively. Joining a family
// the user already belongs to is not an error; the existing membership
// stands and no duplicate row is created.
func (s *FamilyService) JoinFamily(userID int64, inviteCode string) (*models.Family, error) {
	family, err := s.families.GetFamilyByCode(inviteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	membership, err := s.families.GetMembership(family.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if membership != nil {
		return family, nil
	}

	if err := s.families.AddMember(family.ID, userID); err != nil {
		// A concurrent join already added the row; same outcome
		if errors.Is(err, repository.ErrDuplicate) {
			return family, nil
		}
		return nil, fmt.Errorf("failed to join family: %w", err)
	}

	return family, nil
}

// RequireMembership gates every family-scoped operation. Returns
// ErrNotFamilyMember when the user does not belong to the family;
// callers redirect rather than surface an error page.
func (s *FamilyService) RequireMembership(userID, familyID int64) (*models.FamilyMember, error) {
	membership, err := s.families.GetMembership(familyID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNotFamilyMember
	}
	return membership, nil
}

// GetFamily retrieves a family by ID
func (s *FamilyService) GetFamily(familyID int64) (*models.Family, error) {
	family, err := s.families.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

// GetUserFamilies retrieves all families a user belongs to, with member counts
func (s *FamilyService) GetUserFamilies(userID int64) ([]models.FamilySummary, error) {
	families, err := s.families.GetUserFamilies(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user families: %w", err)
	}
	return families, nil
}

// ListMembers retrieves the members of a family ordered by display name
func (s *FamilyService) ListMembers(familyID int64) ([]models.Member, error) {
	members, err := s.families.ListMembers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
