// Package models, gallery server'ının domain modellerini ve sync çekirdeğiyle
// paylaşılan wire tiplerini tanımlar.
//
// `json:"..."` tag'leri API'de taşınan şekli belirler. Hem server (handlers)
// hem client (remote) aynı struct'ları kullanır; böylece iki taraf arasındaki
// sözleşme tek bir yerde durur.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// User, gallery'deki bir kullanıcı.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  *string   `json:"display_name"` // nullable
	PasswordHash string    `json:"-"`            // API response'a asla dahil edilmez
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile, takip sayaçlarıyla birlikte kullanıcı görünümü.
// Sayaçlar sorgu anında COUNT ile hesaplanır.
type UserProfile struct {
	User
	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`
}

// Me, oturum sahibinin profili ve takip ettiği kullanıcı id'leri.
// Client bunu store'daki Following set'ini doldurmak için kullanır.
type Me struct {
	UserProfile
	Following []string `json:"following"`
}

// CreateUserRequest, kayıt payload'ı.
type CreateUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate kuralları:
//   - Username: 3-32 karakter, harf/rakam/alt çizgi
//   - Password: en az 8 karakter
//   - DisplayName: opsiyonel, en fazla 32 karakter
func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	n := utf8.RuneCountInString(r.Username)
	if n < 3 || n > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}
	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(r.DisplayName) > 32 {
		return fmt.Errorf("display name must be at most 32 characters")
	}
	return nil
}

// LoginRequest, giriş payload'ı.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
