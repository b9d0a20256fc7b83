package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Only suitable for local runs.
const DefaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	DBDriver       string
	MySQLDSN       string
	SQLitePath     string
	AutoMigrate    bool
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	ProjectsTTL    time.Duration
	JWTSecret      string
	JWTExpiry      time.Duration
	CORSOrigin     string
	RequestTimeout time.Duration
	LogLevel       string
	SwaggerHost    string
}

// ClientConfig holds settings for the rosterctl operator client.
type ClientConfig struct {
	APIURL      string
	TokenFile   string
	HTTPTimeout time.Duration
	NoticeTTL   time.Duration
	LogLevel    string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		DBDriver:       getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:       getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/roster?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true"),
		SQLitePath:     getEnv("SQLITE_PATH", "roster.db"),
		AutoMigrate:    getEnvBool("AUTO_MIGRATE", false),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		ProjectsTTL:    getEnvDuration("PROJECTS_CACHE_TTL", 5*time.Minute),
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiry:      getEnvDuration("JWT_EXPIRY", time.Hour),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:3000"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
	}
}

// LoadClient builds ClientConfig from environment.
func LoadClient() *ClientConfig {
	_ = godotenv.Load()

	return &ClientConfig{
		APIURL:      getEnv("ROSTER_API_URL", "http://localhost:5000"),
		TokenFile:   getEnv("ROSTER_TOKEN_FILE", defaultTokenFile()),
		HTTPTimeout: getEnvDuration("ROSTER_HTTP_TIMEOUT", 10*time.Second),
		NoticeTTL:   getEnvDuration("NOTICE_TTL", 3*time.Second),
		LogLevel:    getEnv("LOG_LEVEL", "warn"),
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".rosterctl-token"
	}
	return dir + string(os.PathSeparator) + "rosterctl" + string(os.PathSeparator) + "token"
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

// getEnvDuration accepts Go durations ("90s", "1h") and, like the jsonwebtoken
// expiresIn setting, a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
		return parsed
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
