package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cfb-pickem/database"
	"cfb-pickem/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters long")
)

// DefaultTokenExpiry keeps users signed in for a season
const DefaultTokenExpiry = 24 * 30 * 6 * time.Hour

// AuthService handles authentication operations
type AuthService struct {
	users       database.UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
	clock       Clock
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(users database.UserRepository, jwtSecret string, tokenExpiry time.Duration) *AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiry
	}
	return &AuthService{
		users:       users,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
		clock:       SystemClock,
	}
}

// Register sets credentials for a username. A user that so far only exists
// because they submitted predictions can claim their name once.
func (a *AuthService) Register(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &models.InvalidSelectionError{Field: "username", Value: username}
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	user, err := a.users.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil && user.HasPassword() {
		return nil, database.ErrUserExists
	}
	if user == nil {
		user = &models.User{Username: username, CreatedAt: a.clock()}
	}

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	claimed, err := a.users.ClaimUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if !claimed {
		return nil, database.ErrUserExists
	}

	return a.respond(user)
}

// Login authenticates a user and returns a JWT token
func (a *AuthService) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := a.users.GetUser(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return a.respond(user)
}

func (a *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := a.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{
		User:  user.ToSafeUser(),
		Token: token,
	}, nil
}

// GenerateToken creates a new JWT token for the user
func (a *AuthService) GenerateToken(user *models.User) (string, error) {
	now := a.clock()
	claims := JWTClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "cfb-pickem",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
