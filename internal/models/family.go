package models

import "time"

// Family represents a group of users sharing one wishlist exchange
type Family struct {
	ID         int64
	Name       string
	InviteCode string
	CreatedBy  int64
	CreatedAt  time.Time
}

// FamilyMember represents the relationship between a user and a family
type FamilyMember struct {
	ID       int64
	FamilyID int64
	UserID   int64
	JoinedAt time.Time
}

// FamilySummary is a family with its member count, for the dashboard
type FamilySummary struct {
	Family
	MemberCount int
}

// Member is a family member's user details, for the family page
type Member struct {
	UserID      int64
	Username    string
	DisplayName string
}
