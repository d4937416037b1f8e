package repository

import (
	"database/sql"
	"fmt"
	"time"

	"wishtree/internal/database"
	"wishtree/internal/models"
)

// GiftRepository handles database operations for purchases and tree presents
type GiftRepository struct {
	db database.DBTX
}

// NewGiftRepository creates a new gift repository
func NewGiftRepository(db database.DBTX) *GiftRepository {
	return &GiftRepository{db: db}
}

// GetPurchaseByItem retrieves the purchase for a wishlist item, or nil
func (r *GiftRepository) GetPurchaseByItem(itemID int64) (*models.Purchase, error) {
	query := `
		SELECT id, wishlist_item_id, purchased_by, purchased_for, family_id,
		       purchased_at, unwrapped, unwrapped_at, thank_you_sent
		FROM purchases
		WHERE wishlist_item_id = ?
	`
	p := &models.Purchase{}
	err := r.db.QueryRow(query, itemID).Scan(
		&p.ID, &p.WishlistItemID, &p.PurchasedBy, &p.PurchasedFor, &p.FamilyID,
		&p.PurchasedAt, &p.Unwrapped, &p.UnwrappedAt, &p.ThankYouSent,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return p, nil
}

// CreatePurchase records a purchase and its tree present in one transaction.
// The uniqueness constraint on wishlist_item_id is the sole arbiter under
// concurrent attempts: a violation comes back as ErrDuplicate, meaning
// someone else bought the item first.
func (r *GiftRepository) CreatePurchase(purchase *models.Purchase, present *models.TreePresent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO purchases (wishlist_item_id, purchased_by, purchased_for, family_id)
		VALUES (?, ?, ?, ?)
	`
	purchaseID, err := tx.ExecReturningID(query,
		purchase.WishlistItemID, purchase.PurchasedBy, purchase.PurchasedFor, purchase.FamilyID,
	)
	if err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	query = `
		INSERT INTO tree_presents (purchase_id, user_id, family_id, size, color)
		VALUES (?, ?, ?, ?, ?)
	`
	presentID, err := tx.ExecReturningID(query,
		purchaseID, present.UserID, present.FamilyID, present.Size, present.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to create tree present: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	purchase.ID = purchaseID
	purchase.PurchasedAt = time.Now()
	present.ID = presentID
	present.PurchaseID = purchaseID
	return nil
}

// ListPresents retrieves a user's tree presents in a family, joined with
// item title, gifter display name and unwrap state
func (r *GiftRepository) ListPresents(userID, familyID int64) ([]models.PresentView, error) {
	query := `
		SELECT tp.id, tp.purchase_id, tp.user_id, tp.family_id, tp.size, tp.color,
		       tp.position_x, tp.position_y,
		       p.unwrapped, p.unwrapped_at, p.thank_you_sent,
		       wi.title, u.display_name
		FROM tree_presents tp
		INNER JOIN purchases p ON tp.purchase_id = p.id
		INNER JOIN wishlist_items wi ON p.wishlist_item_id = wi.id
		INNER JOIN users u ON p.purchased_by = u.id
		WHERE tp.user_id = ? AND tp.family_id = ?
		ORDER BY tp.id ASC
	`
	rows, err := r.db.Query(query, userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tree presents: %w", err)
	}
	defer rows.Close()

	var presents []models.PresentView
	for rows.Next() {
		var pv models.PresentView
		if err := rows.Scan(
			&pv.ID, &pv.PurchaseID, &pv.UserID, &pv.FamilyID, &pv.Size, &pv.Color,
			&pv.PositionX, &pv.PositionY,
			&pv.Unwrapped, &pv.UnwrappedAt, &pv.ThankYouSent,
			&pv.ItemTitle, &pv.GifterName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tree present: %w", err)
		}
		presents = append(presents, pv)
	}

	return presents, rows.Err()
}

// GetPresent retrieves a single present scoped to a family
func (r *GiftRepository) GetPresent(presentID, familyID int64) (*models.TreePresent, error) {
	query := `
		SELECT id, purchase_id, user_id, family_id, size, color, position_x, position_y
		FROM tree_presents
		WHERE id = ? AND family_id = ?
	`
	tp := &models.TreePresent{}
	err := r.db.QueryRow(query, presentID, familyID).Scan(
		&tp.ID, &tp.PurchaseID, &tp.UserID, &tp.FamilyID,
		&tp.Size, &tp.Color, &tp.PositionX, &tp.PositionY,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tree present: %w", err)
	}

	return tp, nil
}

// Unwrap marks a purchase as unwrapped, once. Already-unwrapped purchases
// are untouched; the transition is one-way.
func (r *GiftRepository) Unwrap(purchaseID int64) error {
	query := `
		UPDATE purchases
		SET unwrapped = ?, unwrapped_at = CURRENT_TIMESTAMP
		WHERE id = ? AND unwrapped = ?
	`
	_, err := r.db.Exec(query, true, purchaseID, false)
	if err != nil {
		return fmt.Errorf("failed to unwrap purchase: %w", err)
	}
	return nil
}

// MarkThankYouSent records that the recipient thanked the gifter.
// Only meaningful after unwrapping.
func (r *GiftRepository) MarkThankYouSent(purchaseID int64) error {
	query := `
		UPDATE purchases
		SET thank_you_sent = ?
		WHERE id = ? AND unwrapped = ?
	`
	_, err := r.db.Exec(query, true, purchaseID, true)
	if err != nil {
		return fmt.Errorf("failed to mark thank you sent: %w", err)
	}
	return nil
}
