package service

import (
	"context"
	"errors"
	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"testing"

	"github.com/go-chi/jwtauth/v5"
)

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:     "jane@example.com",
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	resp, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.ID == 0 {
		t.Fatal("Register did not assign a user id")
	}
	if resp.User.Role != model.RoleUser {
		t.Errorf("role: got %q, want %q", resp.User.Role, model.RoleUser)
	}
	if !resp.User.IsActive {
		t.Error("new account should be active")
	}

	// The token must resolve back to the created user's id.
	decoded, err := jwtauth.VerifyToken(security.TokenAuth, resp.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	claims, err := decoded.AsMap(context.Background())
	if err != nil {
		t.Fatalf("AsMap: %v", err)
	}
	id, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		t.Fatalf("GetUserIDFromClaims: %v", err)
	}
	if id != resp.User.ID {
		t.Errorf("token user id: got %d, want %d", id, resp.User.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = "" }},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "  " }},
		{"missing last name", func(r *RegisterRequest) { r.LastName = "" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegistration()
			tc.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, common.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), validRegistration())
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request for duplicate email, got %v", err)
	}
	if err.Error() != "User with this email already exists" {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	req := validRegistration()
	req.Email = "  Jane@Example.COM "
	resp, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Email != "jane@example.com" {
		t.Errorf("email: got %q, want %q", resp.User.Email, "jane@example.com")
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("Login returned no token")
	}
	if resp.User.Email != "jane@example.com" {
		t.Errorf("email: got %q", resp.User.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "wrong"})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("message: got %q, want %q", err.Error(), "Invalid credentials")
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if err == nil || err.Error() != "Invalid credentials" {
		t.Errorf("unknown email must not be distinguishable, got %v", err)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	resp, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	repo.users[resp.User.ID].IsActive = false

	_, err = svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "secret123"})
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err.Error() != "Account is deactivated" {
		t.Errorf("message: got %q", err.Error())
	}
}
