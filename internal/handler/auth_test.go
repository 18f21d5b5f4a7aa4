package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/ecommerce-api/internal/auth"
	"github.com/iliyamo/ecommerce-api/internal/config"
	"github.com/iliyamo/ecommerce-api/internal/model"
	"github.com/iliyamo/ecommerce-api/internal/queue"
	"github.com/iliyamo/ecommerce-api/internal/repository"
	"github.com/iliyamo/ecommerce-api/internal/utils"
)

// fakeUserStore keeps users in memory, keyed by lowercase email.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	u.ID = bson.NewObjectID()
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	f.users[u.Email] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, id string, upd model.UserUpdate) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.users {
		if u.ID.Hex() != id {
			continue
		}
		if upd.Username != nil {
			u.Username = *upd.Username
		}
		if upd.FirstName != nil {
			u.FirstName = *upd.FirstName
		}
		if upd.LastName != nil {
			u.LastName = *upd.LastName
		}
		if upd.PasswordHash != nil {
			u.PasswordHash = *upd.PasswordHash
		}
		if upd.Email != nil && *upd.Email != email {
			delete(f.users, email)
			u.Email = *upd.Email
		}
		f.users[u.Email] = u
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := f.Update(ctx, id, model.UserUpdate{PasswordHash: &hash})
	return err
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.users {
		if u.ID.Hex() == id {
			delete(f.users, email)
			return nil
		}
	}
	return repository.ErrNotFound
}

// memTokenStore is an in-memory auth.TokenStore.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]model.RefreshToken{}}
}

func (m *memTokenStore) Store(ctx context.Context, userID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = model.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (m *memTokenStore) Find(ctx context.Context, token string) (model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[token]
	if !ok {
		return model.RefreshToken{}, auth.ErrTokenNotFound
	}
	return rt, nil
}

func (m *memTokenStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return auth.ErrTokenNotFound
	}
	delete(m.tokens, token)
	return nil
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens, err := auth.NewTokenService(newMemTokenStore(), "test-secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	cfg := &config.Config{BcryptCost: 4}
	return NewAuthHandler(cfg, users, tokens, nil), users
}

func doJSON(h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h(c)
	return rec
}

func seedUser(t *testing.T, users *fakeUserStore, email, password string) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	u, err := users.Create(context.Background(), model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	require.NoError(t, err)
	return u
}

func TestSignup(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)

	rec := doJSON(h.Signup, http.MethodPost, "/users/signup",
		`{"username":"alice","email":"Alice@Example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "user created successfully")

	// Same email again, case-insensitively.
	rec = doJSON(h.Signup, http.MethodPost, "/users/signup",
		`{"username":"alice2","email":"alice@example.com","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignup_MissingFields(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)

	rec := doJSON(h.Signup, http.MethodPost, "/users/signup", `{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	seedUser(t, users, "alice@example.com", "s3cret")

	rec := doJSON(h.Login, http.MethodPost, "/users/login",
		`{"email":"alice@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
	assert.Contains(t, rec.Body.String(), "refresh_token")
	assert.Contains(t, rec.Body.String(), `"token_type":"bearer"`)
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)

	rec := doJSON(h.Login, http.MethodPost, "/users/login",
		`{"email":"nobody@example.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	seedUser(t, users, "alice@example.com", "s3cret")

	rec := doJSON(h.Login, http.MethodPost, "/users/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	u := seedUser(t, users, "alice@example.com", "s3cret")

	refresh, err := h.Tokens.IssueRefreshToken(context.Background(),
		auth.Identity{Email: u.Email, Role: u.Role}, u.ID.Hex())
	require.NoError(t, err)

	rec := doJSON(h.Refresh, http.MethodPost, "/refresh-token",
		`{"refresh_token":"`+refresh+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")

	// The same refresh token keeps working.
	rec = doJSON(h.Refresh, http.MethodPost, "/refresh-token",
		`{"refresh_token":"`+refresh+`"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRefresh_UnknownToken(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)

	rec := doJSON(h.Refresh, http.MethodPost, "/refresh-token",
		`{"refresh_token":"never-stored"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	u := seedUser(t, users, "alice@example.com", "s3cret")

	refresh, err := h.Tokens.IssueRefreshToken(context.Background(),
		auth.Identity{Email: u.Email, Role: u.Role}, u.ID.Hex())
	require.NoError(t, err)

	rec := doJSON(h.Logout, http.MethodPost, "/users/logout",
		`{"refresh_token":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second logout with the same token fails.
	rec = doJSON(h.Logout, http.MethodPost, "/users/logout",
		`{"refresh_token":"`+refresh+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestPasswordReset(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	seedUser(t, users, "alice@example.com", "s3cret")

	var published []queue.PasswordResetRequestedEvent
	h.Publish = func(ctx context.Context, ev queue.PasswordResetRequestedEvent) error {
		published = append(published, ev)
		return nil
	}

	rec := doJSON(h.RequestPasswordReset, http.MethodPost, "/users/request-password-reset",
		`{"email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reset_token")
	require.Len(t, published, 1)
	assert.Equal(t, "alice@example.com", published[0].Email)
	assert.NotEmpty(t, published[0].ResetToken)
}

func TestRequestPasswordReset_UnknownUser(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)

	rec := doJSON(h.RequestPasswordReset, http.MethodPost, "/users/request-password-reset",
		`{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetPassword(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	u := seedUser(t, users, "alice@example.com", "oldpass")

	token, err := h.Tokens.IssueResetToken(u.ID.Hex())
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users/reset-password/"+token,
		strings.NewReader(`{"old_password":"oldpass","new_password":"newpass"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues(token)
	require.NoError(t, h.ResetPassword(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "newpass"))
}

func TestResetPassword_WrongOldPassword(t *testing.T) {
	t.Parallel()
	h, users := newTestAuthHandler(t)
	u := seedUser(t, users, "alice@example.com", "oldpass")

	token, err := h.Tokens.IssueResetToken(u.ID.Hex())
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users/reset-password/"+token,
		strings.NewReader(`{"old_password":"wrong","new_password":"newpass"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues(token)
	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPassword_BadToken(t *testing.T) {
	t.Parallel()
	h, _ := newTestAuthHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users/reset-password/garbage",
		strings.NewReader(`{"old_password":"a","new_password":"b"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues("garbage")
	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
