package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"creative-tools-api/internal/domain"
)

// Store drivers and quota lock modes.
const (
	StoreDriverSupabase = "supabase"
	StoreDriverMemory   = "memory"

	LockModeNone  = "none"
	LockModeLocal = "local"
	LockModeRedis = "redis"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort             string
	LogLevel               string
	SupabaseURL            string
	SupabaseKey            string
	SupabaseServiceRoleKey string
	JWTSecret              string
	GCPProjectID           string
	GCPLocation            string
	TextModel              string
	ImageModel             string
	SpeechModel            string
	SpeechVoice            string
	StoreDriver            string
	QuotaLockMode          string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	ChargeOnBackendFailure bool
	GalleryTTL             time.Duration
	StorageBucket          string
	AdminSecret            string
	BackendTimeout         time.Duration
	AllowedOrigins         []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:             getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:            getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:            getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseServiceRoleKey: getEnvOrDefault("SUPABASE_SERVICE_ROLE_KEY", ""),
		// Empty means tokens are checked against Supabase Auth instead of locally.
		JWTSecret:              getEnvOrDefault("JWT_SECRET", ""),
		GCPProjectID:           getEnvOrDefault("GCP_PROJECT_ID", ""),
		GCPLocation:            getEnvOrDefault("GCP_LOCATION", "us-central1"),
		TextModel:              getEnvOrDefault("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
		ImageModel:             getEnvOrDefault("GEMINI_IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation"),
		SpeechModel:            getEnvOrDefault("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		SpeechVoice:            getEnvOrDefault("TTS_VOICE", "Algenib"),
		StoreDriver:            strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreDriverSupabase)),
		QuotaLockMode:          strings.ToLower(getEnvOrDefault("QUOTA_LOCK_MODE", LockModeNone)),
		RedisAddr:              getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:                int(getEnvInt64OrDefault("REDIS_DB", 0)),
		ChargeOnBackendFailure: getEnvBoolOrDefault("CHARGE_ON_BACKEND_FAILURE", true),
		GalleryTTL:             time.Duration(getEnvInt64OrDefault("GALLERY_TTL_HOURS", 168)) * time.Hour,
		StorageBucket:          getEnvOrDefault("STORAGE_BUCKET", ""),
		AdminSecret:            getEnvOrDefault("ADMIN_API_SECRET", ""),
		BackendTimeout:         time.Duration(getEnvInt64OrDefault("BACKEND_TIMEOUT_SECONDS", 60)) * time.Second,
		AllowedOrigins:         getEnvListOrDefault("ALLOWED_ORIGINS", nil),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

func (c *AppConfig) GetSupabaseServiceRoleKey() string {
	return c.SupabaseServiceRoleKey
}

// GetJWTSecret returns the JWT secret key
func (c *AppConfig) GetJWTSecret() string {
	return c.JWTSecret
}

func (c *AppConfig) GetGCPProjectID() string {
	return c.GCPProjectID
}

func (c *AppConfig) GetGCPLocation() string {
	return c.GCPLocation
}

func (c *AppConfig) GetTextModel() string {
	return c.TextModel
}

func (c *AppConfig) GetImageModel() string {
	return c.ImageModel
}

func (c *AppConfig) GetSpeechModel() string {
	return c.SpeechModel
}

func (c *AppConfig) GetSpeechVoice() string {
	return c.SpeechVoice
}

// GetStoreDriver returns "supabase" or "memory"
func (c *AppConfig) GetStoreDriver() string {
	return c.StoreDriver
}

// GetQuotaLockMode returns "none", "local" or "redis"
func (c *AppConfig) GetQuotaLockMode() string {
	return c.QuotaLockMode
}

func (c *AppConfig) GetRedisAddr() string {
	return c.RedisAddr
}

func (c *AppConfig) GetRedisPassword() string {
	return c.RedisPassword
}

func (c *AppConfig) GetRedisDB() int {
	return c.RedisDB
}

// GetChargeOnBackendFailure reports whether a failed generation still consumes a credit
func (c *AppConfig) GetChargeOnBackendFailure() bool {
	return c.ChargeOnBackendFailure
}

func (c *AppConfig) GetGalleryTTL() time.Duration {
	return c.GalleryTTL
}

func (c *AppConfig) GetStorageBucket() string {
	return c.StorageBucket
}

func (c *AppConfig) GetAdminSecret() string {
	return c.AdminSecret
}

func (c *AppConfig) GetBackendTimeout() time.Duration {
	return c.BackendTimeout
}

func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping empty entries.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
