package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"wishtree/internal/models"
	"wishtree/internal/repository"
)

// ItemGetter resolves wishlist items, scoped to a family
type ItemGetter interface {
	GetItem(itemID, familyID int64) (*models.WishlistItem, error)
}

// GiftStore is the persistence surface GiftService needs
type GiftStore interface {
	GetPurchaseByItem(itemID int64) (*models.Purchase, error)
	CreatePurchase(purchase *models.Purchase, present *models.TreePresent) error
	ListPresents(userID, familyID int64) ([]models.PresentView, error)
	GetPresent(presentID, familyID int64) (*models.TreePresent, error)
	Unwrap(purchaseID int64) error
	MarkThankYouSent(purchaseID int64) error
}

// GiftService coordinates purchases, tree presents and unwrapping.
// The reveal date gates unwrapping; rng and now are injectable for tests.
type GiftService struct {
	gifts      GiftStore
	items      ItemGetter
	revealDate time.Time
	rng        *rand.Rand
	now        func() time.Time
}

// NewGiftService creates a new gift service. A nil rng falls back to the
// shared math/rand source.
func NewGiftService(gifts GiftStore, items ItemGetter, revealDate time.Time, rng *rand.Rand) *GiftService {
	return &GiftService{
		gifts:      gifts,
		items:      items,
		revealDate: revealDate,
		rng:        rng,
		now:        time.Now,
	}
}

func (s *GiftService) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Purchase records that purchaserID bought the item. First writer wins:
// if a purchase already exists the call is a silent no-op, so later
// shoppers learn nothing they shouldn't. Buying your own item is also a
// no-op. The recipient is always the item's owner.
func (s *GiftService) Purchase(itemID, purchaserID, familyID int64) error {
	item, err := s.items.GetItem(itemID, familyID)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil
	}
	if item.UserID == purchaserID {
		// no self-gifting
		return nil
	}

	existing, err := s.gifts.GetPurchaseByItem(itemID)
	if err != nil {
		return fmt.Errorf("failed to check purchase: %w", err)
	}
	if existing != nil {
		return nil
	}

	purchase := &models.Purchase{
		WishlistItemID: itemID,
		PurchasedBy:    purchaserID,
		PurchasedFor:   item.UserID,
		FamilyID:       familyID,
	}
	present := &models.TreePresent{
		UserID:   item.UserID,
		FamilyID: familyID,
		Size:     models.PresentSizes[s.intn(len(models.PresentSizes))],
		Color:    models.PresentColors[s.intn(len(models.PresentColors))],
	}

	if err := s.gifts.CreatePurchase(purchase, present); err != nil {
		// Lost the race; the item is purchased either way
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	return nil
}

// ListPresents retrieves the user's tree presents in a family
func (s *GiftService) ListPresents(userID, familyID int64) ([]models.PresentView, error) {
	presents, err := s.gifts.ListPresents(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list presents: %w", err)
	}
	return presents, nil
}

// RevealOpen reports whether the reveal date has arrived
func (s *GiftService) RevealOpen() bool {
	return !s.now().Before(s.revealDate)
}

// DaysUntilReveal returns the number of days until the reveal date,
// zero or negative once it has passed
func (s *GiftService) DaysUntilReveal() int {
	return int(math.Ceil(s.revealDate.Sub(s.now()).Hours() / 24))
}

// Unwrap reveals a present. Before the reveal date, for someone else's
// present, or for an unknown present the call is a no-op; afterwards the
// purchase transitions unwrapped false to true exactly once.
func (s *GiftService) Unwrap(presentID, familyID, requesterID int64) error {
	if !s.RevealOpen() {
		return nil
	}

	present, err := s.gifts.GetPresent(presentID, familyID)
	if err != nil {
		return fmt.Errorf("failed to get present: %w", err)
	}
	if present == nil || present.UserID != requesterID {
		return nil
	}

	if err := s.gifts.Unwrap(present.PurchaseID); err != nil {
		return fmt.Errorf("failed to unwrap: %w", err)
	}
	return nil
}

// MarkThankYouSent records that the recipient thanked the gifter for an
// unwrapped present. No-op for unknown or foreign presents.
func (s *GiftService) MarkThankYouSent(presentID, familyID, requesterID int64) error {
	present, err := s.gifts.GetPresent(presentID, familyID)
	if err != nil {
		return fmt.Errorf("failed to get present: %w", err)
	}
	if present == nil || present.UserID != requesterID {
		return nil
	}

	if err := s.gifts.MarkThankYouSent(present.PurchaseID); err != nil {
		return fmt.Errorf("failed to mark thank you: %w", err)
	}
	return nil
}
