package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/domain"
	"github.com/fastFriends/gestura/internal/service"
)

type mockUserRepo struct {
	usersByID       map[string]domain.User
	usersByEmail    map[string]string
	usersByUsername map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:       make(map[string]domain.User),
		usersByEmail:    make(map[string]string),
		usersByUsername: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	if user.Username != "" {
		m.usersByUsername[user.Username] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	id, ok := m.usersByUsername[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(string) bool { return true }

func newTestRouter(t *testing.T) (*gin.Engine, *mockUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	repo := newMockUserRepo()
	userSvc := service.NewUserService(logger, repo, allowAllLimiter{})
	jwtSvc := service.NewJWTService("test-secret", 30*time.Minute)
	translateSvc := service.NewTranslateService(logger, 1)

	authH := NewAuthHandler(logger, userSvc, jwtSvc)
	translateH := NewTranslateHandler(logger, translateSvc)
	router := NewRouter(logger, "http://localhost:5173", authH, translateH, jwtSvc, userSvc)
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	return body.Detail
}

func signupAndLogin(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "a@b.com",
		"username": "ana",
		"password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "a@b.com",
		"password": "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if body.AccessToken == "" || body.TokenType != "bearer" {
		t.Fatalf("unexpected login body: %+v", body)
	}
	return body.AccessToken
}

func TestAuthFlow_SignupLoginMe(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status %d: %s", rec.Code, rec.Body.String())
	}
	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if user.Email != "a@b.com" || user.Username != "ana" || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestSignup_DuplicateEmailDetail(t *testing.T) {
	router, _ := newTestRouter(t)
	_ = signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "a@b.com",
		"username": "otra",
		"password": "secret1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Email already registered" {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestLogin_WrongPasswordDetail(t *testing.T) {
	router, _ := newTestRouter(t)
	_ = signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "a@b.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Incorrect email or password" {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode logout: %v", err)
	}
	if body.Message != "Successfully logged out" {
		t.Fatalf("unexpected message: %q", body.Message)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Not authenticated" {
		t.Fatalf("unexpected detail: %q", detail)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Could not validate credentials" {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestAuth_InactiveUser(t *testing.T) {
	router, repo := newTestRouter(t)
	token := signupAndLogin(t, router)

	id := repo.usersByEmail["a@b.com"]
	user := repo.usersByID[id]
	user.IsActive = false
	repo.usersByID[id] = user

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inactive user, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Inactive user" {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestTranslate_PlaceholderFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/translate", token, gin.H{
		"source_language": "en",
		"target_language": "es",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("translate status %d: %s", rec.Code, rec.Body.String())
	}
	var resp domain.TranslateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode translate: %v", err)
	}
	if resp.Text == "" || resp.Confidence != 0.95 {
		t.Fatalf("unexpected translate response: %+v", resp)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/translate/status", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status status %d: %s", rec.Code, rec.Body.String())
	}
	var status struct {
		Status string `json:"status"`
		User   string `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != "operational" || status.User != "ana" {
		t.Fatalf("unexpected status body: %+v", status)
	}
}

func TestHealthAndRoot(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("root status %d", rec.Code)
	}
}
