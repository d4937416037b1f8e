package models

import "time"

// Purchase records that a wishlist item was bought by a member for its owner.
// At most one purchase exists per item; whoever records it first wins.
type Purchase struct {
	ID             int64
	WishlistItemID int64
	PurchasedBy    int64
	PurchasedFor   int64
	FamilyID       int64
	PurchasedAt    time.Time
	Unwrapped      bool
	UnwrappedAt    *time.Time
	ThankYouSent   bool
}

// TreePresent is the decorative artifact representing a purchase on the
// recipient's tree. Position is assigned by the rendering layer.
type TreePresent struct {
	ID         int64
	PurchaseID int64
	UserID     int64
	FamilyID   int64
	Size       string
	Color      string
	PositionX  *float64
	PositionY  *float64
}

// PresentView is a tree present joined with its purchase state, the item
// title and the gifter's display name for the tree page
type PresentView struct {
	TreePresent
	Unwrapped    bool
	UnwrappedAt  *time.Time
	ThankYouSent bool
	ItemTitle    string
	GifterName   string
}

// Decorative attribute sets for new presents
var (
	PresentSizes  = []string{"small", "medium", "large"}
	PresentColors = []string{"red", "green", "blue", "gold", "silver"}
)
