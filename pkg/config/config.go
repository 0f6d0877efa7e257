package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Cache    CacheConfig
	Log      LogConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig configures the read-path cache. An empty URL disables
// caching entirely and the service runs against the database alone.
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
}

// NATSConfig configures the task event publisher. Empty URL disables it.
type NATSConfig struct {
	URL string // nats://localhost:4222
}

// CacheConfig holds the TTLs of the two cache tiers. Collection keys are
// invalidated on every write, so they only need a short backstop TTL;
// per-record keys live longer since only writes to their own id touch them.
type CacheConfig struct {
	ListTTL time.Duration
	ItemTTL time.Duration
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine, plain environment variables work too.
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress, _ := strconv.ParseBool(getEnv("LOG_COMPRESS", "true"))

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	listTTL, _ := strconv.Atoi(getEnv("CACHE_LIST_TTL_SECONDS", "60"))
	itemTTL, _ := strconv.Atoi(getEnv("CACHE_ITEM_TTL_SECONDS", "300"))

	return &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Tasklist API"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tasklist"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Cache: CacheConfig{
			ListTTL: time.Duration(listTTL) * time.Second,
			ItemTTL: time.Duration(itemTTL) * time.Second,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
