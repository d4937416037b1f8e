package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishtree/internal/models"
)

// fakeWishlistStore is an in-memory WishlistStore and ItemGetter
type fakeWishlistStore struct {
	items  map[int64]*models.WishlistItem
	owners map[int64]string
	nextID int64
}

func newFakeWishlistStore() *fakeWishlistStore {
	return &fakeWishlistStore{
		items:  make(map[int64]*models.WishlistItem),
		owners: make(map[int64]string),
	}
}

func (f *fakeWishlistStore) CreateItem(item *models.WishlistItem) (*models.WishlistItem, error) {
	f.nextID++
	clone := *item
	clone.ID = f.nextID
	clone.CreatedAt = time.Now()
	f.items[clone.ID] = &clone
	return &clone, nil
}

func (f *fakeWishlistStore) GetItem(itemID, familyID int64) (*models.WishlistItem, error) {
	item := f.items[itemID]
	if item == nil || item.FamilyID != familyID {
		return nil, nil
	}
	return item, nil
}

func (f *fakeWishlistStore) DeleteItem(itemID, userID, familyID int64) error {
	item := f.items[itemID]
	if item != nil && item.UserID == userID && item.FamilyID == familyID {
		delete(f.items, itemID)
	}
	return nil
}

func (f *fakeWishlistStore) ListByOwner(userID, familyID int64) ([]models.WishlistItem, error) {
	var out []models.WishlistItem
	for _, item := range f.items {
		if item.UserID == userID && item.FamilyID == familyID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeWishlistStore) ListOthers(familyID, excludeUserID int64) ([]models.ShopItem, error) {
	var out []models.ShopItem
	for _, item := range f.items {
		if item.FamilyID == familyID && item.UserID != excludeUserID {
			out = append(out, models.ShopItem{
				WishlistItem: *item,
				OwnerName:    f.owners[item.UserID],
			})
		}
	}
	return out, nil
}

func TestAddItem(t *testing.T) {
	store := newFakeWishlistStore()
	svc := NewWishlistService(store)

	item, err := svc.AddItem(1, 10, "Wool socks", "the warm kind", "https://example.com/socks", "12.99")
	require.NoError(t, err)

	assert.Equal(t, "Wool socks", item.Title)
	require.NotNil(t, item.Description)
	assert.Equal(t, "the warm kind", *item.Description)
	require.NotNil(t, item.Price)
	assert.Equal(t, "12.99", *item.Price)
}

func TestAddItemBlankOptionals(t *testing.T) {
	store := newFakeWishlistStore()
	svc := NewWishlistService(store)

	item, err := svc.AddItem(1, 10, "Wool socks", "  ", "", "")
	require.NoError(t, err)

	assert.Nil(t, item.Description)
	assert.Nil(t, item.Link)
	assert.Nil(t, item.Price)
}

func TestAddItemRequiresTitle(t *testing.T) {
	svc := NewWishlistService(newFakeWishlistStore())

	_, err := svc.AddItem(1, 10, "", "", "", "")
	assert.Error(t, err)

	_, err = svc.AddItem(1, 10, "   ", "", "", "")
	assert.Error(t, err)

	_, err = svc.AddItem(1, 10, strings.Repeat("x", 201), "", "", "")
	assert.Error(t, err)
}

func TestDeleteItemScopedToOwner(t *testing.T) {
	store := newFakeWishlistStore()
	svc := NewWishlistService(store)

	item, err := svc.AddItem(1, 10, "Wool socks", "", "", "")
	require.NoError(t, err)

	// Someone else deleting is a silent no-op
	require.NoError(t, svc.DeleteItem(2, 10, item.ID))
	assert.NotNil(t, store.items[item.ID])

	// Wrong family is a silent no-op too
	require.NoError(t, svc.DeleteItem(1, 11, item.ID))
	assert.NotNil(t, store.items[item.ID])

	require.NoError(t, svc.DeleteItem(1, 10, item.ID))
	assert.Nil(t, store.items[item.ID])
}

func TestListOthersItemsGroupsByOwner(t *testing.T) {
	store := newFakeWishlistStore()
	store.owners[2] = "Mrs. Claus"
	store.owners[3] = "Rudolph"
	svc := NewWishlistService(store)

	_, err := svc.AddItem(2, 10, "Cocoa pot", "", "", "")
	require.NoError(t, err)
	_, err = svc.AddItem(2, 10, "Mittens", "", "", "")
	require.NoError(t, err)
	_, err = svc.AddItem(3, 10, "Nose polish", "", "", "")
	require.NoError(t, err)
	_, err = svc.AddItem(1, 10, "My own thing", "", "", "")
	require.NoError(t, err)

	owners, err := svc.ListOthersItems(10, 1)
	require.NoError(t, err)

	total := 0
	for _, owner := range owners {
		assert.NotEqual(t, int64(1), owner.OwnerID, "own items must not appear in the shop")
		for _, item := range owner.Items {
			assert.Equal(t, owner.OwnerID, item.UserID)
			total++
		}
	}
	assert.Equal(t, 3, total)
}
