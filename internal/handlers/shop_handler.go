package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"wishtree/internal/service"
)

// ShopHandler handles the family gift shop, where members browse each
// other's wishlists and mark items as purchased
type ShopHandler struct {
	wishlistService *service.WishlistService
	giftService     *service.GiftService
	middleware      *Middleware
	templates       *template.Template
}

// NewShopHandler creates a new shop handler
func NewShopHandler(wishlistService *service.WishlistService, giftService *service.GiftService, middleware *Middleware, templates *template.Template) *ShopHandler {
	return &ShopHandler{
		wishlistService: wishlistService,
		giftService:     giftService,
		middleware:      middleware,
		templates:       templates,
	}
}

// ShowShop displays everyone else's wishlists, grouped by owner
func (h *ShopHandler) ShowShop(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	owners, err := h.wishlistService.ListOthersItems(family.ID, user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to load shop", err)
		return
	}

	renderTemplate(w, h.templates, "shop.tmpl", ShopViewData{
		Title:     "Gift Shop - " + family.Name,
		User:      user,
		Family:    family,
		Owners:    owners,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}

// Purchase marks an item as bought. The redirect is the same whether or
// not the purchase was recorded, so racing shoppers can't tell apart.
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemId"), 10, 64)
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/family/%d/shop", family.ID), http.StatusSeeOther)
		return
	}

	if err := h.giftService.Purchase(itemID, user.ID, family.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to record purchase", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/family/%d/shop", family.ID), http.StatusSeeOther)
}
