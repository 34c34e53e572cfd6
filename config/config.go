// Package config, gallery server'ı ve galleryctl istemcisinin konfigürasyonunu
// environment variable'lardan okur. .env dosyası varsa önce o yüklenir.
//
// Her alt bölüm ayrı bir struct'tır; server sync istemcisinin ayarlarını
// kullanmaz, galleryctl de JWT secret'ına ihtiyaç duymaz.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, server tarafının tüm ayarları.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig, SQLite ayarları.
type DatabaseConfig struct {
	Path string // ör: ./data/gallery.db
}

// JWTConfig, access token ayarları.
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // dakika
	BcryptCost        int
}

// RateLimitConfig, login ve mutation rate limiter ayarları.
type RateLimitConfig struct {
	Enabled          bool
	LoginAttempts    int
	LoginWindow      time.Duration
	MutationsPerWin  int
	MutationWindow   time.Duration
	MutationCooldown time.Duration
}

// MetricsConfig, Prometheus /metrics endpoint'i.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Load, server config'ini oluşturur.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("SERVER_PORT", 9090)
	if err != nil {
		return nil, err
	}
	accessExpiry, err := getInt("JWT_ACCESS_EXPIRY_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	bcryptCost, err := getInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}
	loginAttempts, err := getInt("RATE_LIMIT_LOGIN_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	mutations, err := getInt("RATE_LIMIT_MUTATIONS", 30)
	if err != nil {
		return nil, err
	}

	loginWindow, err := getDuration("RATE_LIMIT_LOGIN_WINDOW", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	mutationWindow, err := getDuration("RATE_LIMIT_MUTATION_WINDOW", 10*time.Second)
	if err != nil {
		return nil, err
	}
	mutationCooldown, err := getDuration("RATE_LIMIT_MUTATION_COOLDOWN", 30*time.Second)
	if err != nil {
		return nil, err
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/gallery.db"),
		},
		JWT: JWTConfig{
			Secret:            jwtSecret,
			AccessTokenExpiry: accessExpiry,
			BcryptCost:        bcryptCost,
		},
		RateLimit: RateLimitConfig{
			Enabled:          getBool("RATE_LIMIT_ENABLED", true),
			LoginAttempts:    loginAttempts,
			LoginWindow:      loginWindow,
			MutationsPerWin:  mutations,
			MutationWindow:   mutationWindow,
			MutationCooldown: mutationCooldown,
		},
		Metrics: MetricsConfig{
			Enabled:   getBool("METRICS_ENABLED", true),
			Namespace: getEnv("METRICS_NAMESPACE", "gallery"),
		},
	}, nil
}

// ClientConfig, galleryctl'in ayarları. Flag'ler bu değerleri ezer.
type ClientConfig struct {
	ServerURL     string
	Token         string
	SurfacesPath  string // boşsa gömülü varsayılan yüzeyler
	RemoteTimeout time.Duration
}

// LoadClient, istemci config'ini oluşturur. Zorunlu alan yoktur.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	timeout, err := getDuration("GALLERY_REMOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &ClientConfig{
		ServerURL:     getEnv("GALLERY_SERVER_URL", "http://localhost:9090"),
		Token:         getEnv("GALLERY_TOKEN", ""),
		SurfacesPath:  getEnv("GALLERY_SURFACES_PATH", ""),
		RemoteTimeout: timeout,
	}, nil
}

// Addr, HTTP server'ın dinleyeceği adres (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getBool, parse edilemeyen değerde fallback'e döner.
func getBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
