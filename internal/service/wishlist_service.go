package service

import (
	"fmt"
	"strings"

	"wishtree/internal/models"
	"wishtree/internal/validation"
)

// WishlistStore is the persistence surface WishlistService needs
type WishlistStore interface {
	CreateItem(item *models.WishlistItem) (*models.WishlistItem, error)
	DeleteItem(itemID, userID, familyID int64) error
	ListByOwner(userID, familyID int64) ([]models.WishlistItem, error)
	ListOthers(familyID, excludeUserID int64) ([]models.ShopItem, error)
}

// WishlistService handles wishlist business logic
type WishlistService struct {
	items WishlistStore
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(items WishlistStore) *WishlistService {
	return &WishlistService{items: items}
}

// AddItem adds a wishlist item. Title is required; description, link and
// price are stored as NULL when blank.
func (s *WishlistService) AddItem(userID, familyID int64, title, description, link, price string) (*models.WishlistItem, error) {
	title = strings.TrimSpace(title)
	if err := validation.ValidateItemTitle(title); err != nil {
		return nil, err
	}

	item := &models.WishlistItem{
		UserID:      userID,
		FamilyID:    familyID,
		Title:       title,
		Description: optional(description),
		Link:        optional(link),
		Price:       optional(price),
	}

	created, err := s.items.CreateItem(item)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return created, nil
}

// DeleteItem deletes the user's own item. The ownership check is part of
// the delete predicate; deleting someone else's item (or a nonexistent
// one) silently does nothing.
func (s *WishlistService) DeleteItem(userID, familyID, itemID int64) error {
	if err := s.items.DeleteItem(itemID, userID, familyID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// ListOwnItems retrieves the user's items in a family, newest first
func (s *WishlistService) ListOwnItems(userID, familyID int64) ([]models.WishlistItem, error) {
	items, err := s.items.ListByOwner(userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// ListOthersItems retrieves everyone else's items grouped by owner,
// owners ordered by display name, each owner's items newest first
func (s *WishlistService) ListOthersItems(familyID, excludeUserID int64) ([]models.ShopOwner, error) {
	items, err := s.items.ListOthers(familyID, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}

	// Rows arrive ordered by owner display name, so grouping preserves order
	var owners []models.ShopOwner
	for _, item := range items {
		if len(owners) == 0 || owners[len(owners)-1].OwnerID != item.UserID {
			owners = append(owners, models.ShopOwner{
				OwnerID:   item.UserID,
				OwnerName: item.OwnerName,
			})
		}
		owners[len(owners)-1].Items = append(owners[len(owners)-1].Items, item)
	}

	return owners, nil
}

// optional maps blank form values to NULL
func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
