package repository

import (
	"database/sql"
	"fmt"
	"time"

	"wishtree/internal/database"
	"wishtree/internal/models"
)

// WishlistRepository handles database operations for wishlist items
type WishlistRepository struct {
	db database.DBTX
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db database.DBTX) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// CreateItem inserts a new wishlist item. Duplicate titles are allowed;
// a family may well want two of the same gift.
func (r *WishlistRepository) CreateItem(item *models.WishlistItem) (*models.WishlistItem, error) {
	query := `
		INSERT INTO wishlist_items (user_id, family_id, title, description, link, price, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		item.UserID, item.FamilyID, item.Title,
		item.Description, item.Link, item.Price, item.Priority,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wishlist item: %w", err)
	}

	created := *item
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

// GetItem retrieves a wishlist item scoped to a family
func (r *WishlistRepository) GetItem(itemID, familyID int64) (*models.WishlistItem, error) {
	query := `
		SELECT id, user_id, family_id, title, description, link, price, priority, created_at, updated_at
		FROM wishlist_items
		WHERE id = ? AND family_id = ?
	`
	item := &models.WishlistItem{}
	err := r.db.QueryRow(query, itemID, familyID).Scan(
		&item.ID, &item.UserID, &item.FamilyID, &item.Title,
		&item.Description, &item.Link, &item.Price, &item.Priority,
		&item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}

	return item, nil
}

// DeleteItem deletes an item only when it belongs to the given user and
// family. Ownership lives in the predicate; a non-matching delete is a no-op.
func (r *WishlistRepository) DeleteItem(itemID, userID, familyID int64) error {
	query := "DELETE FROM wishlist_items WHERE id = ? AND user_id = ? AND family_id = ?"
	_, err := r.db.Exec(query, itemID, userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	return nil
}

// ListByOwner retrieves a user's own items in a family, newest first
func (r *WishlistRepository) ListByOwner(userID, familyID int64) ([]models.WishlistItem, error) {
	query := `
		SELECT id, user_id, family_id, title, description, link, price, priority, created_at, updated_at
		FROM wishlist_items
		WHERE family_id = ? AND user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, familyID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.FamilyID, &item.Title,
			&item.Description, &item.Link, &item.Price, &item.Priority,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListOthers retrieves all items in a family except the given user's,
// joined with owner name and purchase state, ordered by owner display
// name then newest first
func (r *WishlistRepository) ListOthers(familyID, excludeUserID int64) ([]models.ShopItem, error) {
	query := `
		SELECT wi.id, wi.user_id, wi.family_id, wi.title, wi.description, wi.link, wi.price,
		       wi.priority, wi.created_at, wi.updated_at,
		       u.display_name, p.id, p.purchased_by
		FROM wishlist_items wi
		INNER JOIN users u ON wi.user_id = u.id
		LEFT JOIN purchases p ON wi.id = p.wishlist_item_id
		WHERE wi.family_id = ? AND wi.user_id != ?
		ORDER BY u.display_name ASC, wi.created_at DESC
	`
	rows, err := r.db.Query(query, familyID, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop items: %w", err)
	}
	defer rows.Close()

	var items []models.ShopItem
	for rows.Next() {
		var item models.ShopItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.FamilyID, &item.Title,
			&item.Description, &item.Link, &item.Price, &item.Priority,
			&item.CreatedAt, &item.UpdatedAt,
			&item.OwnerName, &item.PurchaseID, &item.PurchasedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
