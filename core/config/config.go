package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Breaker  BreakerConfig
	Auth     AuthConfig
	App      AppConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Enabled=false switches the read-path cache to its in-memory
	// implementation and disables the asynq worker.
	Enabled bool
}

type CacheConfig struct {
	SlotTTL        time.Duration
	CalendarTTL    time.Duration
	DirectoryTTL   time.Duration
	MemoryMaxItems int
}

// BreakerConfig tunes the four execution-guard workload classes.
type BreakerConfig struct {
	SimpleTimeout    time.Duration
	MediumTimeout    time.Duration
	WriteTimeout     time.Duration
	ExternalTimeout  time.Duration
	SimpleReset      time.Duration
	MediumReset      time.Duration
	WriteReset       time.Duration
	ExternalReset    time.Duration
	SimpleErrorRate  float64
	MediumErrorRate  float64
	WriteErrorRate   float64
	ExternalErrRate  float64
	RollingWindow    time.Duration
	MinRequests      uint32
	RetryAfterSecond int
}

type AuthConfig struct {
	JWTSecret string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Timezone    string
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads configuration from the environment (and an optional .env file)
// and caches it for Get/GetSafe.
func Load() (*Config, error) {
	// .env is optional; real deployments set plain environment variables.
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "admissions")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_SLOT_TTL", "2m")
	v.SetDefault("CACHE_CALENDAR_TTL", "5m")
	v.SetDefault("CACHE_DIRECTORY_TTL", "10m")
	v.SetDefault("CACHE_MEMORY_MAX_ITEMS", 1024)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "America/Montevideo")

	v.SetDefault("BREAKER_SIMPLE_TIMEOUT", "3s")
	v.SetDefault("BREAKER_MEDIUM_TIMEOUT", "8s")
	v.SetDefault("BREAKER_WRITE_TIMEOUT", "5s")
	v.SetDefault("BREAKER_EXTERNAL_TIMEOUT", "30s")
	v.SetDefault("BREAKER_SIMPLE_RESET", "10s")
	v.SetDefault("BREAKER_MEDIUM_RESET", "20s")
	v.SetDefault("BREAKER_WRITE_RESET", "30s")
	v.SetDefault("BREAKER_EXTERNAL_RESET", "60s")
	v.SetDefault("BREAKER_SIMPLE_ERROR_RATE", 0.7)
	v.SetDefault("BREAKER_MEDIUM_ERROR_RATE", 0.5)
	v.SetDefault("BREAKER_WRITE_ERROR_RATE", 0.3)
	v.SetDefault("BREAKER_EXTERNAL_ERROR_RATE", 0.8)
	v.SetDefault("BREAKER_ROLLING_WINDOW", "60s")
	v.SetDefault("BREAKER_MIN_REQUESTS", 5)
	v.SetDefault("BREAKER_RETRY_AFTER_SECONDS", 15)

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Enabled:  v.GetString("REDIS_ADDR") != "",
		},
		Cache: CacheConfig{
			SlotTTL:        v.GetDuration("CACHE_SLOT_TTL"),
			CalendarTTL:    v.GetDuration("CACHE_CALENDAR_TTL"),
			DirectoryTTL:   v.GetDuration("CACHE_DIRECTORY_TTL"),
			MemoryMaxItems: v.GetInt("CACHE_MEMORY_MAX_ITEMS"),
		},
		Breaker: BreakerConfig{
			SimpleTimeout:    v.GetDuration("BREAKER_SIMPLE_TIMEOUT"),
			MediumTimeout:    v.GetDuration("BREAKER_MEDIUM_TIMEOUT"),
			WriteTimeout:     v.GetDuration("BREAKER_WRITE_TIMEOUT"),
			ExternalTimeout:  v.GetDuration("BREAKER_EXTERNAL_TIMEOUT"),
			SimpleReset:      v.GetDuration("BREAKER_SIMPLE_RESET"),
			MediumReset:      v.GetDuration("BREAKER_MEDIUM_RESET"),
			WriteReset:       v.GetDuration("BREAKER_WRITE_RESET"),
			ExternalReset:    v.GetDuration("BREAKER_EXTERNAL_RESET"),
			SimpleErrorRate:  v.GetFloat64("BREAKER_SIMPLE_ERROR_RATE"),
			MediumErrorRate:  v.GetFloat64("BREAKER_MEDIUM_ERROR_RATE"),
			WriteErrorRate:   v.GetFloat64("BREAKER_WRITE_ERROR_RATE"),
			ExternalErrRate:  v.GetFloat64("BREAKER_EXTERNAL_ERROR_RATE"),
			RollingWindow:    v.GetDuration("BREAKER_ROLLING_WINDOW"),
			MinRequests:      uint32(v.GetUint("BREAKER_MIN_REQUESTS")),
			RetryAfterSecond: v.GetInt("BREAKER_RETRY_AFTER_SECONDS"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		App: AppConfig{
			Environment: v.GetString("ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			Timezone:    v.GetString("APP_TIMEZONE"),
		},
	}

	if cfg.App.Environment != "development" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required outside development")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the loaded configuration. Panics if Load was never called.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Load must be called before Get")
	}
	return cfg
}

// GetSafe returns the loaded configuration and whether Load has run.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// SetForTesting replaces the cached configuration. Test use only.
func SetForTesting(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
