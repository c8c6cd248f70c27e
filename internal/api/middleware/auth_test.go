package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

func TestMain(m *testing.M) {
	security.InitJWT([]byte("middleware-test-secret"), time.Hour)
	os.Exit(m.Run())
}

// stubUserRepo serves FindByID from a fixed map; the auth middleware uses
// nothing else.
type stubUserRepo struct {
	users map[int64]*model.User
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) UpdateProfile(ctx context.Context, id int64, upd repository.UserProfileUpdate) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (s *stubUserRepo) Update(ctx context.Context, id int64, upd repository.UserAdminUpdate) (*model.User, error) {
	return nil, common.ErrNotFound
}

func testRouter(repo *stubUserRepo, extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(NewAuthenticator(repo).Authenticate)
	for _, mw := range extra {
		r.Use(mw)
	}
	r.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		common.RespondWithData(w, http.StatusOK, user)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env common.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env.Message
}

func expiredToken(t *testing.T, userID int64) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(-time.Hour).Unix(),
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
	}
	_, token, err := security.TokenAuth.Encode(claims)
	if err != nil {
		t.Fatalf("encode expired token: %v", err)
	}
	return token
}

func TestAuthenticateRejections(t *testing.T) {
	repo := &stubUserRepo{users: map[int64]*model.User{
		1: {ID: 1, Email: "jane@example.com", Role: model.RoleUser, IsActive: true},
		2: {ID: 2, Email: "gone@example.com", Role: model.RoleUser, IsActive: false},
	}}
	router := testRouter(repo)

	validFor := func(id int64) string {
		token, err := security.GenerateToken(id)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		return token
	}

	cases := []struct {
		name        string
		token       string
		wantStatus  int
		wantMessage string
	}{
		{"no token", "", http.StatusUnauthorized, "Access token required"},
		{"malformed token", "garbage", http.StatusUnauthorized, "Invalid token"},
		{"expired token", expiredToken(t, 1), http.StatusUnauthorized, "Token expired"},
		{"unknown user", validFor(99), http.StatusUnauthorized, "User not found"},
		{"deactivated account", validFor(2), http.StatusUnauthorized, "Account is deactivated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, tc.token)
			if rec.Code != tc.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := decodeMessage(t, rec); got != tc.wantMessage {
				t.Errorf("message: got %q, want %q", got, tc.wantMessage)
			}
		})
	}
}

func TestAuthenticateAttachesUser(t *testing.T) {
	repo := &stubUserRepo{users: map[int64]*model.User{
		1: {ID: 1, Email: "jane@example.com", Role: model.RoleUser, IsActive: true},
	}}
	router := testRouter(repo)

	token, err := security.GenerateToken(1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	rec := doRequest(t, router, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var env struct {
		Data model.User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Email != "jane@example.com" {
		t.Errorf("attached user email: got %q", env.Data.Email)
	}
}

func TestRequireRoles(t *testing.T) {
	repo := &stubUserRepo{users: map[int64]*model.User{
		1: {ID: 1, Email: "user@example.com", Role: model.RoleUser, IsActive: true},
		2: {ID: 2, Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true},
	}}
	router := testRouter(repo, RequireRoles(model.RoleAdmin))

	userToken, err := security.GenerateToken(1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	rec := doRequest(t, router, userToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: got %d, want 403", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Insufficient permissions" {
		t.Errorf("message: got %q", got)
	}

	adminToken, err := security.GenerateToken(2)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if rec := doRequest(t, router, adminToken); rec.Code != http.StatusOK {
		t.Errorf("admin: got %d, want 200", rec.Code)
	}
}

func TestRequireRolesWithoutAuthenticatedUser(t *testing.T) {
	// Defensive path: the gate without the authenticator in front.
	r := chi.NewRouter()
	r.Use(RequireRoles(model.RoleAdmin))
	r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}
