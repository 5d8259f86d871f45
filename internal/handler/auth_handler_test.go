package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kolkore/open-calls-api/internal/middleware"
	"github.com/kolkore/open-calls-api/internal/models"
	"github.com/kolkore/open-calls-api/internal/service"
)

type authRepoStub struct {
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
}

func newAuthRepoStub() *authRepoStub {
	return &authRepoStub{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (s *authRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func (s *authRepoStub) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *authRepoStub) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := s.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	for _, t := range s.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (s *authRepoStub) RevokeUserRefreshTokens(context.Context, string) error { return nil }

func seedUser(t *testing.T, repo *authRepoStub, role models.UserRole) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	id := "user-" + string(role)
	repo.users[id] = &models.User{
		ID:           id,
		Email:        strings.ToLower(string(role)) + "@example.org",
		PasswordHash: string(hash),
		FullName:     "Test " + string(role),
		Role:         role,
		Active:       true,
	}
}

func authRouter(repo *authRepoStub) (*gin.Engine, *service.AuthService) {
	svc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "open-calls-api",
	})
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", middleware.JWT(svc), h.Logout)
	r.GET("/admin/ping", middleware.JWT(svc), middleware.RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, svc
}

func loginAs(t *testing.T, r *gin.Engine, email string) (string, string) {
	t.Helper()
	w := httptest.NewRecorder()
	payload := `{"email":"` + email + `","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken, body.Data.RefreshToken
}

func TestAuthHandlerLogin(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, models.RoleAdmin)
	r, _ := authRouter(repo)

	access, refresh := loginAs(t, r, "admin@example.org")
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestAuthHandlerLoginBadCredentials(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, models.RoleAdmin)
	r, _ := authRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@example.org","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLoginMalformedPayload(t *testing.T) {
	r, _ := authRouter(newAuthRepoStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerRefresh(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, models.RoleAdmin)
	r, _ := authRouter(repo)

	_, refresh := loginAs(t, r, "admin@example.org")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"`+refresh+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEqual(t, refresh, body.Data.RefreshToken)
}

func TestAuthHandlerLogout(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, models.RoleAdmin)
	r, _ := authRouter(repo)

	access, refresh := loginAs(t, r, "admin@example.org")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(`{"refresh_token":"`+refresh+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminRouteRequiresToken(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, models.RoleAdmin)
	r, _ := authRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRouteRejectsNonAdmin(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, models.RoleAdmin)
	seedUser(t, repo, models.RoleUser)
	r, _ := authRouter(repo)

	access, _ := loginAs(t, r, "user@example.org")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRouteAllowsAdmin(t *testing.T) {
	repo := newAuthRepoStub()
	seedUser(t, repo, models.RoleAdmin)
	r, _ := authRouter(repo)

	access, _ := loginAs(t, r, "admin@example.org")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
