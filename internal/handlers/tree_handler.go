package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"wishtree/internal/service"
)

// TreeHandler handles the Christmas tree page where presents pile up
// and get unwrapped once the reveal date arrives
type TreeHandler struct {
	giftService *service.GiftService
	middleware  *Middleware
	templates   *template.Template
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(giftService *service.GiftService, middleware *Middleware, templates *template.Template) *TreeHandler {
	return &TreeHandler{
		giftService: giftService,
		middleware:  middleware,
		templates:   templates,
	}
}

// ShowTree displays the user's presents under the family tree
func (h *TreeHandler) ShowTree(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	presents, err := h.giftService.ListPresents(user.ID, family.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to load presents", err)
		return
	}

	renderTemplate(w, h.templates, "tree.tmpl", TreeViewData{
		Title:           "Tree - " + family.Name,
		User:            user,
		Family:          family,
		Presents:        presents,
		DaysUntilReveal: h.giftService.DaysUntilReveal(),
		RevealOpen:      h.giftService.RevealOpen(),
		CSRFToken:       h.middleware.CSRFToken(r),
	})
}

// Unwrap opens one of the user's presents once the reveal date has passed
func (h *TreeHandler) Unwrap(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	presentID, err := strconv.ParseInt(r.PathValue("presentId"), 10, 64)
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/family/%d/tree", family.ID), http.StatusSeeOther)
		return
	}

	if err := h.giftService.Unwrap(presentID, family.ID, user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to unwrap present", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/family/%d/tree", family.ID), http.StatusSeeOther)
}

// ThankYou records that the recipient thanked the gifter
func (h *TreeHandler) ThankYou(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	presentID, err := strconv.ParseInt(r.PathValue("presentId"), 10, 64)
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/family/%d/tree", family.ID), http.StatusSeeOther)
		return
	}

	if err := h.giftService.MarkThankYouSent(presentID, family.ID, user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to record thank you", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/family/%d/tree", family.ID), http.StatusSeeOther)
}
