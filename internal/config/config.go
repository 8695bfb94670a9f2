package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config настройки сервиса, читаются из переменных окружения (.env опционален)
type Config struct {
	Port    string
	GinMode string

	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnLifetime  time.Duration
	DBConnAttempts  int
	DBConnRetryWait time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret string

	LogFormat string
	LogLevel  string

	AutoCompleteEnabled  bool
	AutoCompleteInterval time.Duration
	AutoCompleteLockTTL  time.Duration
}

// Load загружает .env (если есть) и собирает конфигурацию.
// Возвращает признак того, что .env был найден.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		Port:    getString("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		DBHost:          getString("DB_HOST", "localhost"),
		DBPort:          getString("DB_PORT", "5432"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 100),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetime:  time.Duration(getInt("DB_CONN_MAX_LIFETIME_MINUTES", 60)) * time.Minute,
		DBConnAttempts:  getInt("DB_CONNECT_ATTEMPTS", 5),
		DBConnRetryWait: time.Duration(getInt("DB_CONNECT_RETRY_SECONDS", 5)) * time.Second,

		RedisHost:     getString("REDIS_HOST", "localhost"),
		RedisPort:     getString("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LogFormat: getString("LOG_FORMAT", "text"),
		LogLevel:  getString("LOG_LEVEL", "info"),

		AutoCompleteEnabled:  getBool("AUTOCOMPLETE_ENABLED", true),
		AutoCompleteInterval: time.Duration(getInt("AUTOCOMPLETE_INTERVAL_SECONDS", 60)) * time.Second,
		AutoCompleteLockTTL:  time.Duration(getInt("AUTOCOMPLETE_LOCK_TTL_SECONDS", 50)) * time.Second,
	}

	return cfg, envLoaded
}

// DSN строка подключения к PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getInt значение по умолчанию используется и для непарсящихся, и для неположительных значений
func getInt(key string, def int) int {
	if val, err := strconv.Atoi(os.Getenv(key)); err == nil && val > 0 {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return val
	}
	return def
}
