package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"wishtree/internal/service"
)

// WishlistHandler handles a member's own wishlist
type WishlistHandler struct {
	wishlistService *service.WishlistService
	middleware      *Middleware
	templates       *template.Template
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *service.WishlistService, middleware *Middleware, templates *template.Template) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		middleware:      middleware,
		templates:       templates,
	}
}

// ShowMyList displays the user's own wishlist within a family
func (h *WishlistHandler) ShowMyList(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	items, err := h.wishlistService.ListOwnItems(user.ID, family.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to load wishlist", err)
		return
	}

	renderTemplate(w, h.templates, "my_list.tmpl", MyListViewData{
		Title:     "My List - " + family.Name,
		User:      user,
		Family:    family,
		Items:     items,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}

// AddItem adds an item to the user's wishlist
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	_, err := h.wishlistService.AddItem(user.ID, family.ID,
		r.FormValue("title"),
		r.FormValue("description"),
		r.FormValue("link"),
		r.FormValue("price"))
	if err != nil {
		items, listErr := h.wishlistService.ListOwnItems(user.ID, family.ID)
		if listErr != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to load wishlist", listErr)
			return
		}
		renderTemplate(w, h.templates, "my_list.tmpl", MyListViewData{
			Title:     "My List - " + family.Name,
			User:      user,
			Family:    family,
			Items:     items,
			Error:     err.Error(),
			CSRFToken: h.middleware.CSRFToken(r),
		})
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/family/%d/my-list", family.ID), http.StatusSeeOther)
}

// DeleteItem removes an item from the user's wishlist
func (h *WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemId"), 10, 64)
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/family/%d/my-list", family.ID), http.StatusSeeOther)
		return
	}

	if err := h.wishlistService.DeleteItem(user.ID, family.ID, itemID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to delete item", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/family/%d/my-list", family.ID), http.StatusSeeOther)
}
