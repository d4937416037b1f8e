package models

import "time"

// WishlistItem is a gift request posted by a user within a family.
// Description, Link and Price are optional and stored as NULL when absent.
type WishlistItem struct {
	ID          int64
	UserID      int64
	FamilyID    int64
	Title       string
	Description *string
	Link        *string
	Price       *string
	Priority    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShopItem is a wishlist item as seen by other family members, joined
// with its owner and purchase state
type ShopItem struct {
	WishlistItem
	OwnerName   string
	PurchaseID  *int64
	PurchasedBy *int64
}

// PurchasedByUser reports whether the given user bought this item
func (s *ShopItem) PurchasedByUser(userID int64) bool {
	return s.PurchasedBy != nil && *s.PurchasedBy == userID
}

// Purchased reports whether anyone bought this item
func (s *ShopItem) Purchased() bool {
	return s.PurchaseID != nil
}

// ShopOwner groups another member's items for the shop view
type ShopOwner struct {
	OwnerID   int64
	OwnerName string
	Items     []ShopItem
}
