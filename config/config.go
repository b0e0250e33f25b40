package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	EnablePostgres   bool

	DataDir     string
	FilePattern string
	ProfilePath string

	OutputDir    string
	WorkbookPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "bikeshare"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "bikeshare123"),
		PostgresDB:       getEnv("POSTGRES_DB", "trips_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		EnablePostgres:   getEnvBool("ENABLE_POSTGRES", false),

		DataDir:     getEnv("DATA_DIR", "./data"),
		FilePattern: getEnv("FILE_PATTERN", "*-tripdata.csv"),
		ProfilePath: getEnv("ANALYSIS_PROFILE", "./analysis.yaml"),

		OutputDir:    getEnv("OUTPUT_DIR", "./output"),
		WorkbookPath: getEnv("WORKBOOK_PATH", "./output/trip_report.xlsx"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
