package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	PublicBaseURL string
	MySQLDSN      string
	ResetDB       bool
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SwaggerHost   string
	LogLevel      string

	// SecretKey signs purpose-scoped tokens (email verification, password reset).
	SecretKey string
	// JWTSecret signs access tokens.
	JWTSecret       string
	AccessTokenTTL  time.Duration
	TokenMaxAge     time.Duration
	SingleUseTokens bool
	BcryptCost      int

	Mail MailConfig
}

// MailConfig holds SMTP settings. An empty Server disables SMTP delivery.
type MailConfig struct {
	Server   string
	Port     int
	UseSSL   bool
	Username string
	Password string
	Sender   string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("SERVER_PORT", "5000")
	return &Config{
		ServerPort:      port,
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/exambank?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:         getEnvBool("RESET_DB", false),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SecretKey:       getEnv("SECRET_KEY", "change-me"),
		JWTSecret:       getEnv("JWT_SECRET_KEY", "change-me-too"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		TokenMaxAge:     getEnvDuration("TOKEN_MAX_AGE", time.Hour),
		SingleUseTokens: getEnvBool("SINGLE_USE_TOKENS", false),
		BcryptCost:      getEnvInt("BCRYPT_COST", 10),
		Mail: MailConfig{
			Server:   os.Getenv("MAIL_SERVER"),
			Port:     getEnvInt("MAIL_PORT", 587),
			UseSSL:   getEnvBool("MAIL_USE_SSL", false),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			Sender:   getEnv("MAIL_SENDER", "noreply@example.com"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("90m") or plain seconds ("3600").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if parsed, err := time.ParseDuration(v); err == nil {
		return parsed
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
