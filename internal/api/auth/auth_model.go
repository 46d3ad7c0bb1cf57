package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest represents the register request body. Field rules mirror
// what the browser client submits: username present, email well-formed,
// password at least 6 characters.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse echoes the created account. The password hash is never
// part of any response.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse carries the bearer token alongside the account fields.
type LoginResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Claims is the JWT payload minted at login. Subject duplicates UserID so
// standard tooling can read the token's subject.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
