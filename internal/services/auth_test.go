package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"
)

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username:    "Alice",
		Password:    "hunter2",
		KnownAs:     "Alice",
		Gender:      models.GenderFemale,
		DateOfBirth: time.Date(1999, 4, 12, 0, 0, 0, 0, time.UTC),
		City:        "Lyon",
		Country:     "France",
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "secret")

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want lowercased %q", user.Username, "alice")
	}
	if user.PasswordHash == "hunter2" || user.PasswordHash == "" {
		t.Error("password stored without hashing")
	}

	token, logged, err := svc.Login(context.Background(), "ALICE", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("logged-in user id = %d, want %d", logged.ID, user.ID)
	}

	id, err := svc.ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if id != user.ID {
		t.Errorf("token user id = %d, want %d", id, user.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "secret")

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"empty username", func(r *RegisterRequest) { r.Username = "  " }},
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }},
		{"unknown gender", func(r *RegisterRequest) { r.Gender = "robot" }},
		{"missing date of birth", func(r *RegisterRequest) { r.DateOfBirth = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(&req)
			if _, err := svc.Register(context.Background(), req); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "secret")

	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), validRegistration()); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate register err = %v, want ErrConflict", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "secret")
	if _, err := svc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("wrong password err = %v, want ErrUnauthorized", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody", "hunter2"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("unknown username err = %v, want ErrUnauthorized", err)
	}
}

func TestValidateJWTRejectsForeignToken(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), "secret")
	other := NewAuthService(newFakeUserStore(), "different-secret")

	token, err := other.GenerateJWT(7)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := svc.ValidateJWT(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
	if _, err := svc.ValidateJWT("not-a-token"); err == nil {
		t.Error("malformed token was accepted")
	}
}
