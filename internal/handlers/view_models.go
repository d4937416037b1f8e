package handlers

import "wishtree/internal/models"

type LandingViewData struct {
	Title string
}

type LoginViewData struct {
	Title    string
	Error    string
	Username string
}

type SignupViewData struct {
	Title       string
	Error       string
	Username    string
	Email       string
	DisplayName string
}

type DashboardViewData struct {
	Title     string
	User      *models.User
	Families  []models.FamilySummary
	CSRFToken string
}

type FamilyFormViewData struct {
	Title     string
	User      *models.User
	Error     string
	Name      string
	Code      string
	CSRFToken string
}

type FamilyViewData struct {
	Title     string
	User      *models.User
	Family    *models.Family
	Members   []models.Member
	CSRFToken string
}

type MyListViewData struct {
	Title     string
	User      *models.User
	Family    *models.Family
	Items     []models.WishlistItem
	Error     string
	CSRFToken string
}

type ShopViewData struct {
	Title     string
	User      *models.User
	Family    *models.Family
	Owners    []models.ShopOwner
	CSRFToken string
}

type TreeViewData struct {
	Title           string
	User            *models.User
	Family          *models.Family
	Presents        []models.PresentView
	DaysUntilReveal int
	RevealOpen      bool
	CSRFToken       string
}
