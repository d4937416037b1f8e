package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"wishtree/internal/models"
	"wishtree/internal/security"
	"wishtree/internal/service"
)

// staticUserStore serves one fixed user and session
type staticUserStore struct {
	user    *models.User
	session *models.Session
}

func (s *staticUserStore) CreateUser(username, email, passwordHash, displayName string) (*models.User, error) {
	return nil, nil
}

func (s *staticUserStore) GetUserByUsername(username string) (*models.User, error) {
	return s.user, nil
}

func (s *staticUserStore) GetUserByID(id int64) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *staticUserStore) CreateSession(sessionID string, userID int64, expiresAt time.Time) (*models.Session, error) {
	return nil, nil
}

func (s *staticUserStore) GetSession(sessionID string) (*models.Session, error) {
	if s.session != nil && s.session.ID == sessionID {
		return s.session, nil
	}
	return nil, nil
}

func (s *staticUserStore) DeleteSession(sessionID string) error { return nil }

func (s *staticUserStore) DeleteExpiredSessions() error { return nil }

func testMiddleware() (*Middleware, *staticUserStore) {
	store := &staticUserStore{
		user: &models.User{ID: 1, Username: "kringle", DisplayName: "Kris"},
		session: &models.Session{
			ID:        "valid-session",
			UserID:    1,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	authService := service.NewAuthService(store, time.Hour)
	csrf := security.NewCSRFGenerator("test-secret")
	limiter := security.NewRateLimiter(2, time.Minute)
	return NewMiddleware(authService, nil, csrf, limiter), store
}

func TestRequireAuthRedirectsWithoutCookie(t *testing.T) {
	mw, _ := testMiddleware()

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest("GET", "/dashboard", nil))

	if called {
		t.Error("handler should not run without a session")
	}
	if recorder.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusSeeOther)
	}
	if loc := recorder.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}
}

func TestRequireAuthRejectsInvalidSession(t *testing.T) {
	mw, _ := testMiddleware()

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an invalid session")
	})

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: "bogus"})

	recorder := httptest.NewRecorder()
	handler(recorder, r)

	if recorder.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusSeeOther)
	}

	// The bad cookie is cleared
	cleared := false
	for _, c := range recorder.Result().Cookies() {
		if c.Name == security.SessionCookieName && c.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("invalid session cookie was not cleared")
	}
}

func TestRequireAuthPutsUserInContext(t *testing.T) {
	mw, store := testMiddleware()

	var got *models.User
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserFromContext(r.Context())
	})

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: store.session.ID})

	handler(httptest.NewRecorder(), r)

	if got == nil {
		t.Fatal("no user in context")
	}
	if got.ID != store.user.ID {
		t.Errorf("context user ID = %d, want %d", got.ID, store.user.ID)
	}
	if got.PasswordHash != "" {
		t.Error("context user carries a password hash")
	}
}

func TestCSRFProtect(t *testing.T) {
	mw, store := testMiddleware()
	token := mw.CSRFToken(requestWithSession(store.session.ID))

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "valid token",
			token:      token,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "missing token",
			token:      "",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong token",
			token:      "deadbeef",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := mw.CSRFProtect(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			form := url.Values{"csrf_token": {tt.token}}
			r := httptest.NewRequest("POST", "/family/create", strings.NewReader(form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: store.session.ID})

			recorder := httptest.NewRecorder()
			handler(recorder, r)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	mw, _ := testMiddleware()

	handler := mw.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// The limiter allows 2 per window
	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		handler(recorder, httptest.NewRequest("POST", "/login", nil))
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, recorder.Code)
		}
	}

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest("POST", "/login", nil))
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusTooManyRequests)
	}
}

func requestWithSession(sessionID string) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: sessionID})
	return r
}
