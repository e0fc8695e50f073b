// api/models/auth_models.go
package models

import "github.com/golang-jwt/jwt/v5"

// --- Auth Request/Response Structs ---

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=1,max=64"`
}

// LoginResponse defines the structure for the login response body
type LoginResponse struct {
	Message     string `json:"message"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

// --- JWT Claims ---

// CustomClaims includes standard claims and our custom userID claim for JWT
type CustomClaims struct {
	UserID string `json:"userID"`
	jwt.RegisteredClaims
}
