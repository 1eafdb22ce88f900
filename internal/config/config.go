package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Session      SessionConfig
	OAuth        OAuthConfig
	CORS         CORSConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	FrontendURL           string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	BcryptCost      int
	StateSecret     string
	StateTTLMinutes int
	CacheSignSecret string
}

// SessionConfig controls server-side session lifetime and caching.
type SessionConfig struct {
	TTLHours             int
	UpdateAgeHours       int
	CookieCacheMaxAgeMin int
	CookieName           string
	CookieDomain         string
}

// OAuthProviderConfig holds one provider's client credentials.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig bundles social login providers.
type OAuthConfig struct {
	RedirectBaseURL string
	Google          OAuthProviderConfig
	GitHub          OAuthProviderConfig
}

// CORSConfig lists trusted browser origins.
type CORSConfig struct {
	AllowOrigins []string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "fullstack-starter"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3001"),
			Version:               getEnv("APP_VERSION", "dev"),
			FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
			StateSecret:     getEnv("AUTH_STATE_SECRET", "dev-state-secret"),
			StateTTLMinutes: getEnvAsInt("AUTH_STATE_TTL_MINUTES", 10),
			CacheSignSecret: getEnv("AUTH_CACHE_SIGN_SECRET", "dev-cache-secret"),
		},
		Session: SessionConfig{
			TTLHours:             getEnvAsInt("SESSION_TTL_HOURS", 24*7),
			UpdateAgeHours:       getEnvAsInt("SESSION_UPDATE_AGE_HOURS", 24),
			CookieCacheMaxAgeMin: getEnvAsInt("SESSION_COOKIE_CACHE_MAX_AGE_MINUTES", 5),
			CookieName:           getEnv("SESSION_COOKIE_NAME", "session_token"),
			CookieDomain:         os.Getenv("SESSION_COOKIE_DOMAIN"),
		},
		OAuth: OAuthConfig{
			RedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", "http://localhost:3001"),
			Google: OAuthProviderConfig{
				ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			},
			GitHub: OAuthProviderConfig{
				ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
				ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			},
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("TRUSTED_ORIGINS", []string{
				"http://localhost:5173",
				"http://localhost:3001",
			}),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IsDevelopment reports whether the service runs in development mode. The
// deployment mode is fixed at startup; nothing re-reads the environment per
// request.
func (a AppConfig) IsDevelopment() bool {
	return a.Env != "production"
}

// TTL returns the absolute session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// UpdateAge returns the refresh threshold for aging sessions.
func (s SessionConfig) UpdateAge() time.Duration {
	return time.Duration(s.UpdateAgeHours) * time.Hour
}

// CookieCacheMaxAge bounds how long a session lookup may be served from the
// signed cookie cache instead of the store.
func (s SessionConfig) CookieCacheMaxAge() time.Duration {
	return time.Duration(s.CookieCacheMaxAgeMin) * time.Minute
}

// StateTTL returns the OAuth state token lifetime.
func (a AuthConfig) StateTTL() time.Duration {
	return time.Duration(a.StateTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
