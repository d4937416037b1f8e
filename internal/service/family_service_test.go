package service

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishtree/internal/models"
	"wishtree/internal/repository"
)

// fakeFamilyStore is an in-memory FamilyStore. Invite codes are
// normalized to uppercase on lookup, matching the store contract.
type fakeFamilyStore struct {
	families   map[int64]*models.Family
	members    map[int64][]int64
	nextID     int64
	failCreate int
}

func newFakeFamilyStore() *fakeFamilyStore {
	return &fakeFamilyStore{
		families: make(map[int64]*models.Family),
		members:  make(map[int64][]int64),
	}
}

func (f *fakeFamilyStore) CreateFamily(name, inviteCode string, creatorID int64) (*models.Family, error) {
	if f.failCreate > 0 {
		f.failCreate--
		return nil, repository.ErrDuplicate
	}
	for _, fam := range f.families {
		if fam.InviteCode == inviteCode {
			return nil, repository.ErrDuplicate
		}
	}
	f.nextID++
	family := &models.Family{
		ID:         f.nextID,
		Name:       name,
		InviteCode: inviteCode,
		CreatedBy:  creatorID,
		CreatedAt:  time.Now(),
	}
	f.families[family.ID] = family
	f.members[family.ID] = []int64{creatorID}
	return family, nil
}

func (f *fakeFamilyStore) GetFamilyByID(familyID int64) (*models.Family, error) {
	return f.families[familyID], nil
}

func (f *fakeFamilyStore) GetFamilyByCode(inviteCode string) (*models.Family, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	for _, fam := range f.families {
		if fam.InviteCode == code {
			return fam, nil
		}
	}
	return nil, nil
}

func (f *fakeFamilyStore) GetUserFamilies(userID int64) ([]models.FamilySummary, error) {
	var out []models.FamilySummary
	for id, fam := range f.families {
		for _, uid := range f.members[id] {
			if uid == userID {
				out = append(out, models.FamilySummary{Family: *fam, MemberCount: len(f.members[id])})
			}
		}
	}
	return out, nil
}

func (f *fakeFamilyStore) GetMembership(familyID, userID int64) (*models.FamilyMember, error) {
	for _, uid := range f.members[familyID] {
		if uid == userID {
			return &models.FamilyMember{FamilyID: familyID, UserID: userID}, nil
		}
	}
	return nil, nil
}

func (f *fakeFamilyStore) AddMember(familyID, userID int64) error {
	for _, uid := range f.members[familyID] {
		if uid == userID {
			return repository.ErrDuplicate
		}
	}
	f.members[familyID] = append(f.members[familyID], userID)
	return nil
}

func (f *fakeFamilyStore) ListMembers(familyID int64) ([]models.Member, error) {
	var out []models.Member
	for _, uid := range f.members[familyID] {
		out = append(out, models.Member{UserID: uid})
	}
	return out, nil
}

func TestCreateFamily(t *testing.T) {
	store := newFakeFamilyStore()
	svc := NewFamilyService(store)

	family, err := svc.CreateFamily("The Kringles", 1)
	require.NoError(t, err)

	assert.Equal(t, "The Kringles", family.Name)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), family.InviteCode)

	// Creator is the first member
	membership, err := store.GetMembership(family.ID, 1)
	require.NoError(t, err)
	assert.NotNil(t, membership)
}

func TestCreateFamilyRetriesOnCollision(t *testing.T) {
	store := newFakeFamilyStore()
	store.failCreate = 1
	svc := NewFamilyService(store)

	family, err := svc.CreateFamily("The Kringles", 1)
	require.NoError(t, err)
	assert.NotNil(t, family)
}

func TestCreateFamilyValidatesName(t *testing.T) {
	svc := NewFamilyService(newFakeFamilyStore())

	_, err := svc.CreateFamily("", 1)
	assert.Error(t, err)

	_, err = svc.CreateFamily("   ", 1)
	assert.Error(t, err)
}

func TestJoinFamily(t *testing.T) {
	store := newFakeFamilyStore()
	svc := NewFamilyService(store)

	created, err := svc.CreateFamily("The Kringles", 1)
	require.NoError(t, err)

	joined, err := svc.JoinFamily(2, created.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, joined.ID)

	membership, err := store.GetMembership(created.ID, 2)
	require.NoError(t, err)
	assert.NotNil(t, membership)
}

func TestJoinFamilyLowercaseCode(t *testing.T) {
	store := newFakeFamilyStore()
	svc := NewFamilyService(store)

	created, err := svc.CreateFamily("The Kringles", 1)
	require.NoError(t, err)

	joined, err := svc.JoinFamily(2, "  "+strings.ToLower(created.InviteCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, joined.ID)
}

func TestJoinFamilyIdempotent(t *testing.T) {
	store := newFakeFamilyStore()
	svc := NewFamilyService(store)

	created, err := svc.CreateFamily("The Kringles", 1)
	require.NoError(t, err)

	_, err = svc.JoinFamily(2, created.InviteCode)
	require.NoError(t, err)

	// Joining again is fine and does not duplicate the membership
	_, err = svc.JoinFamily(2, created.InviteCode)
	require.NoError(t, err)

	members, err := store.ListMembers(created.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestJoinFamilyBadCode(t *testing.T) {
	svc := NewFamilyService(newFakeFamilyStore())

	_, err := svc.JoinFamily(2, "NOPE1234")
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestRequireMembership(t *testing.T) {
	store := newFakeFamilyStore()
	svc := NewFamilyService(store)

	created, err := svc.CreateFamily("The Kringles", 1)
	require.NoError(t, err)

	_, err = svc.RequireMembership(1, created.ID)
	assert.NoError(t, err)

	_, err = svc.RequireMembership(99, created.ID)
	assert.ErrorIs(t, err, ErrNotFamilyMember)
}

func TestGetUserFamilies(t *testing.T) {
	store := newFakeFamilyStore()
	svc := NewFamilyService(store)

	a, err := svc.CreateFamily("Family A", 1)
	require.NoError(t, err)
	_, err = svc.CreateFamily("Family B", 2)
	require.NoError(t, err)
	_, err = svc.JoinFamily(2, a.InviteCode)
	require.NoError(t, err)

	families, err := svc.GetUserFamilies(2)
	require.NoError(t, err)
	assert.Len(t, families, 2)

	families, err = svc.GetUserFamilies(1)
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, 2, families[0].MemberCount)
}
