package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"wishtree/internal/service"
)

// FamilyHandler handles dashboard and family management requests
type FamilyHandler struct {
	familyService *service.FamilyService
	middleware    *Middleware
	templates     *template.Template
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService, middleware *Middleware, templates *template.Template) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
		middleware:    middleware,
		templates:     templates,
	}
}

// Dashboard lists the families the user belongs to, with member counts
func (h *FamilyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	families, err := h.familyService.GetUserFamilies(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to load families", err)
		return
	}

	renderTemplate(w, h.templates, "dashboard.tmpl", DashboardViewData{
		Title:     "Dashboard - Wishtree",
		User:      user,
		Families:  families,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}

// ShowCreateFamily renders the create-family form
func (h *FamilyHandler) ShowCreateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	renderTemplate(w, h.templates, "family_create.tmpl", FamilyFormViewData{
		Title:     "Create Family - Wishtree",
		User:      user,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}

// CreateFamily handles family creation
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")

	family, err := h.familyService.CreateFamily(name, user.ID)
	if err != nil {
		renderTemplate(w, h.templates, "family_create.tmpl", FamilyFormViewData{
			Title:     "Create Family - Wishtree",
			User:      user,
			Error:     err.Error(),
			Name:      name,
			CSRFToken: h.middleware.CSRFToken(r),
		})
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/family/%d", family.ID), http.StatusSeeOther)
}

// ShowJoinFamily renders the join-family form
func (h *FamilyHandler) ShowJoinFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	renderTemplate(w, h.templates, "family_join.tmpl", FamilyFormViewData{
		Title:     "Join Family - Wishtree",
		User:      user,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}

// JoinFamily redeems an invite code. Already being a member just lands
// the user back on the family page.
func (h *FamilyHandler) JoinFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	code := r.FormValue("invite_code")

	family, err := h.familyService.JoinFamily(user.ID, code)
	if err != nil {
		msg := "Something went wrong, please try again"
		if errors.Is(err, service.ErrFamilyNotFound) {
			msg = "Invalid invite code"
		}
		renderTemplate(w, h.templates, "family_join.tmpl", FamilyFormViewData{
			Title:     "Join Family - Wishtree",
			User:      user,
			Error:     msg,
			Code:      code,
			CSRFToken: h.middleware.CSRFToken(r),
		})
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/family/%d", family.ID), http.StatusSeeOther)
}

// ShowFamily displays a family's detail page with its member list
func (h *FamilyHandler) ShowFamily(w http.ResponseWriter, r *http.Request) {
	user, family, ok := h.middleware.RequireFamily(w, r)
	if !ok {
		return
	}

	members, err := h.familyService.ListMembers(family.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "failed to load members", err)
		return
	}

	renderTemplate(w, h.templates, "family.tmpl", FamilyViewData{
		Title:     family.Name + " - Wishtree",
		User:      user,
		Family:    family,
		Members:   members,
		CSRFToken: h.middleware.CSRFToken(r),
	})
}
