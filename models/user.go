package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a pick'em participant identified by username. The password hash is
// only used by the auth layer; users created through predictions have none.
type User struct {
	Username     string    `json:"username" bson:"_id"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"` // Never serialize password in JSON
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// LoginRequest represents login form data
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// SetPassword hashes the user's password using bcrypt
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword verifies the provided password against the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HasPassword reports whether the user registered with credentials
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// ToSafeUser returns a copy of the user without sensitive fields
func (u *User) ToSafeUser() User {
	return User{
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
