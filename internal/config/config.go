package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageRedis  = "redis"
	StorageFile   = "file"
	StorageMemory = "memory"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int
	GRPCPort int

	StorageBackend string
	StorageKey     string
	StorageFile    string

	RedisAddr string
	MySQLDSN  string

	CatalogURL     string
	CatalogTimeout time.Duration
	StockCacheTTL  time.Duration
	HealthInterval time.Duration
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:         getEnv("APP_ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		GRPCPort:       getEnvInt("GRPC_PORT", 50051),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageRedis),
		StorageKey:     getEnv("STORAGE_KEY", "@RocketShoes:cart"),
		StorageFile:    getEnv("STORAGE_FILE", "localstorage.json"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		MySQLDSN:       getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/rocketshoes?parseTime=true"),
		CatalogURL:     getEnv("CATALOG_URL", "http://localhost:3333"),
		CatalogTimeout: getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
		StockCacheTTL:  getEnvDuration("STOCK_CACHE_TTL", 30*time.Second),
		HealthInterval: getEnvDuration("HEALTH_INTERVAL", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
