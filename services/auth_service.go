// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturur. Tüm iş kuralları
// burada yaşar: şifre hash'leme, JWT üretimi, mutation yanıt varyantları,
// gerçek zamanlı olay yayını.
//
// Service http.Request/Response bilmez ve doğrudan SQL çalıştırmaz.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/repository"
)

// AuthService, kayıt, giriş ve token doğrulama.
// Handler ve ws.Handler bu interface'e bağımlıdır.
type AuthService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	// Me, oturum sahibinin profilini ve takip ettiği id'leri döner.
	Me(ctx context.Context, userID string) (*models.Me, error)
}

type authService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	jwtSecret  []byte
	accessExp  time.Duration
	bcryptCost int
}

func NewAuthService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	jwtSecret string,
	accessExpMinutes int,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		followRepo: followRepo,
		jwtSecret:  []byte(jwtSecret),
		accessExp:  time.Duration(accessExpMinutes) * time.Minute,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var displayName *string
	if req.DisplayName != "" {
		displayName = &req.DisplayName
	}

	user := &models.User{
		Username:     req.Username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	return s.issue(user)
}

// Login, kullanıcı yoksa da şifre yanlışsa da aynı hatayı döner;
// hangi kullanıcı adlarının kayıtlı olduğu sızmaz.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	return s.issue(user)
}

func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}
	return claims, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*models.Me, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if following == nil {
		following = []string{}
	}
	return &models.Me{UserProfile: *profile, Following: following}, nil
}

func (s *authService) issue(user *models.User) (*models.AuthResponse, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gallery",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = ""
	return &models.AuthResponse{User: *user, AccessToken: signed}, nil
}
