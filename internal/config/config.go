package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	Keycloak   KeycloakConfig
	RateLimit  RateLimitConfig
	Webhook    WebhookConfig
	Video      VideoConfig
	Recordings RecordingsConfig
	Interviews InterviewsConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KeycloakConfig describes the OIDC issuer that signs caller tokens.
type KeycloakConfig struct {
	URL           string
	Realm         string
	ClientID      string
	AllowInsecure bool
}

// Issuer returns the realm issuer URL, or URL itself when no realm is set.
func (k KeycloakConfig) Issuer() string {
	if k.Realm == "" {
		return k.URL
	}
	return strings.TrimRight(k.URL, "/") + "/realms/" + k.Realm
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// WebhookConfig verifies identity-provider webhook deliveries.
type WebhookConfig struct {
	Secret    string
	Tolerance time.Duration
}

// VideoConfig points at the hosted video-call provider.
type VideoConfig struct {
	BaseURL       string
	APIKey        string
	APISecret     string
	CallType      string
	Timeout       time.Duration
	RetryAttempts int
	UserTokenTTL  time.Duration
}

// RecordingsConfig is the MinIO bucket that archives call recordings.
type RecordingsConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Bucket     string
	PresignTTL time.Duration
}

type InterviewsConfig struct {
	StrictTransitions bool
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MONGODB_DATABASE", "codesync")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("WEBHOOK_TOLERANCE_SECONDS", 300)
	v.SetDefault("VIDEO_CALL_TYPE", "default")
	v.SetDefault("VIDEO_TIMEOUT_SECONDS", 10)
	v.SetDefault("VIDEO_RETRY_ATTEMPTS", 3)
	v.SetDefault("VIDEO_USER_TOKEN_TTL_MINUTES", 120)
	v.SetDefault("RECORDINGS_BUCKET", "codesync-recordings")
	v.SetDefault("RECORDINGS_PRESIGN_TTL_MINUTES", 60)

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Keycloak: KeycloakConfig{
			URL:           v.GetString("KEYCLOAK_URL"),
			Realm:         v.GetString("KEYCLOAK_REALM"),
			ClientID:      v.GetString("KEYCLOAK_CLIENT_ID"),
			AllowInsecure: v.GetBool("ALLOW_INSECURE_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Webhook: WebhookConfig{
			Secret:    v.GetString("WEBHOOK_SECRET"),
			Tolerance: time.Duration(v.GetInt("WEBHOOK_TOLERANCE_SECONDS")) * time.Second,
		},
		Video: VideoConfig{
			BaseURL:       v.GetString("VIDEO_BASE_URL"),
			APIKey:        v.GetString("VIDEO_API_KEY"),
			APISecret:     v.GetString("VIDEO_API_SECRET"),
			CallType:      v.GetString("VIDEO_CALL_TYPE"),
			Timeout:       time.Duration(v.GetInt("VIDEO_TIMEOUT_SECONDS")) * time.Second,
			RetryAttempts: v.GetInt("VIDEO_RETRY_ATTEMPTS"),
			UserTokenTTL:  time.Duration(v.GetInt("VIDEO_USER_TOKEN_TTL_MINUTES")) * time.Minute,
		},
		Recordings: RecordingsConfig{
			Endpoint:   v.GetString("MINIO_ENDPOINT"),
			AccessKey:  v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:  v.GetString("MINIO_SECRET_KEY"),
			UseSSL:     v.GetBool("MINIO_USE_SSL"),
			Bucket:     v.GetString("RECORDINGS_BUCKET"),
			PresignTTL: time.Duration(v.GetInt("RECORDINGS_PRESIGN_TTL_MINUTES")) * time.Minute,
		},
		Interviews: InterviewsConfig{
			StrictTransitions: v.GetBool("INTERVIEW_STRICT_TRANSITIONS"),
		},
	}

	if cfg.MongoDB.URI == "" {
		logger.Warn("MONGODB_URI is not set; using in-memory repositories")
	}
	if cfg.Webhook.Secret == "" {
		logger.Warn("WEBHOOK_SECRET is not set; identity webhooks will be rejected")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
