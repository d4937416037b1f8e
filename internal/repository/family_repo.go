package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"wishtree/internal/database"
	"wishtree/internal/models"
)

// FamilyRepository handles database operations for families and memberships
type FamilyRepository struct {
	db database.DBTX
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db database.DBTX) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a family and the creator's membership in one
// transaction, so a crash never leaves a family with zero members.
// Returns ErrDuplicate if the invite code is already taken.
func (r *FamilyRepository) CreateFamily(name, inviteCode string, creatorID int64) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name, invite_code, created_by) VALUES (?, ?, ?)"
	familyID, err := tx.ExecReturningID(query, name, inviteCode, creatorID)
	if err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "INSERT INTO family_members (family_id, user_id) VALUES (?, ?)"
	if _, err := tx.Exec(query, familyID, creatorID); err != nil {
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Family{
		ID:         familyID,
		Name:       name,
		InviteCode: inviteCode,
		CreatedBy:  creatorID,
		CreatedAt:  time.Now(),
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := "SELECT id, name, invite_code, created_by, created_at FROM families WHERE id = ?"
	return r.scanFamily(r.db.QueryRow(query, familyID))
}

// GetFamilyByCode retrieves a family by invite code, case-insensitively.
// Codes are stored uppercase.
func (r *FamilyRepository) GetFamilyByCode(inviteCode string) (*models.Family, error) {
	query := "SELECT id, name, invite_code, created_by, created_at FROM families WHERE invite_code = ?"
	return r.scanFamily(r.db.QueryRow(query, strings.ToUpper(strings.TrimSpace(inviteCode))))
}

func (r *FamilyRepository) scanFamily(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(
		&family.ID,
		&family.Name,
		&family.InviteCode,
		&family.CreatedBy,
		&family.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// GetUserFamilies retrieves all families a user belongs to, with member counts
func (r *FamilyRepository) GetUserFamilies(userID int64) ([]models.FamilySummary, error) {
	query := `
		SELECT f.id, f.name, f.invite_code, f.created_by, f.created_at,
		       (SELECT COUNT(*) FROM family_members fc WHERE fc.family_id = f.id)
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.FamilySummary
	for rows.Next() {
		var f models.FamilySummary
		if err := rows.Scan(&f.ID, &f.Name, &f.InviteCode, &f.CreatedBy, &f.CreatedAt, &f.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, f)
	}

	return families, rows.Err()
}

// GetMembership returns the membership row for (family, user), or nil
func (r *FamilyRepository) GetMembership(familyID, userID int64) (*models.FamilyMember, error) {
	query := `
		SELECT id, family_id, user_id, joined_at
		FROM family_members
		WHERE family_id = ? AND user_id = ?
	`
	member := &models.FamilyMember{}
	err := r.db.QueryRow(query, familyID, userID).Scan(
		&member.ID,
		&member.FamilyID,
		&member.UserID,
		&member.JoinedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return member, nil
}

// AddMember adds a user to a family. Returns ErrDuplicate if the user is
// already a member, which callers treat as success.
func (r *FamilyRepository) AddMember(familyID, userID int64) error {
	query := "INSERT INTO family_members (family_id, user_id) VALUES (?, ?)"
	_, err := r.db.Exec(query, familyID, userID)
	if err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// ListMembers retrieves all members of a family ordered by display name
func (r *FamilyRepository) ListMembers(familyID int64) ([]models.Member, error) {
	query := `
		SELECT u.id, u.username, u.display_name
		FROM users u
		INNER JOIN family_members fm ON u.id = fm.user_id
		WHERE fm.family_id = ?
		ORDER BY u.display_name ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Username, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
