package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, access token'ın payload'ı.
// Server her request'te imzayı doğrular; kullanıcıyı DB'ye gitmeden tanır.
// galleryctl de aynı token'ı Authorization header'ında taşır.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthResponse, register / login yanıtı.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
