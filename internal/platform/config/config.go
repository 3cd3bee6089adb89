package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JudgeBaseURL     string
	HTTPTimeout      time.Duration // 0 leaves the transport defaults in charge
	HistoryPageSize  int
	LogLevel         string
	SessionBackend   string
	SessionFile      string
	SessionNamespace string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Stub judge
	APIPort     string
	JWTKey      []byte
	JWTExp      time.Duration
	StubCatalog string
}

var AppConfig *Config

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		JudgeBaseURL:     getEnv("JUDGE_BASE_URL", "http://localhost:8080/api"),
		HTTPTimeout:      time.Duration(getEnvAsInt("JUDGE_HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		HistoryPageSize:  getEnvAsInt("HISTORY_PAGE_SIZE", 20),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SessionBackend:   getEnv("SESSION_BACKEND", "file"),
		SessionFile:      getEnv("SESSION_FILE", ""),
		SessionNamespace: getEnv("SESSION_NAMESPACE", "default"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "user"),
		DBPassword:       getEnv("DB_PASSWORD", "password"),
		DBName:           getEnv("DB_NAME", "judge_client"),
		DBSslMode:        getEnv("DB_SSLMODE", "disable"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		APIPort:          getEnv("API_PORT", "8080"),
		JWTKey:           []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:           time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		StubCatalog:      getEnv("STUB_CATALOG", ""),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode

	return AppConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
