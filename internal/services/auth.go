package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 7

// AuthService handles registration, login and token verification.
type AuthService struct {
	users     UserStore
	jwtSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest carries the fields needed to create a profile.
type RegisterRequest struct {
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	KnownAs     string        `json:"known_as"`
	Gender      models.Gender `json:"gender"`
	DateOfBirth time.Time     `json:"date_of_birth"`
	City        string        `json:"city"`
	Country     string        `json:"country"`
}

// Register creates a new user with a hashed password. A taken username
// surfaces as apperr.ErrConflict from the store's uniqueness constraint.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	switch {
	case req.Username == "":
		return nil, fmt.Errorf("%w: username is required", apperr.ErrValidation)
	case len(req.Password) < 4:
		return nil, fmt.Errorf("%w: password must be at least 4 characters", apperr.ErrValidation)
	case !req.Gender.IsValid():
		return nil, fmt.Errorf("%w: gender must be male or female", apperr.ErrValidation)
	case req.DateOfBirth.IsZero():
		return nil, fmt.Errorf("%w: date of birth is required", apperr.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		KnownAs:      req.KnownAs,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		CreatedAt:    now,
		LastActive:   now,
		City:         req.City,
		Country:      req.Country,
		Photos:       []models.Photo{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed token plus the user.
// Wrong username and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateJWT generates a signed token for a user
func (s *AuthService) GenerateJWT(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a token and returns the user id it carries.
func (s *AuthService) ValidateJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims: %w", apperr.ErrUnauthorized)
	}

	// JSON numbers decode as float64.
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in token: %w", apperr.ErrUnauthorized)
	}

	return int64(userID), nil
}
