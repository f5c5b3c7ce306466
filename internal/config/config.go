package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment
type Config struct {
	Port           string
	UseMemoryStore bool

	DBUser                 string
	DBPass                 string
	DBName                 string
	DBHost                 string
	DBPort                 string
	InstanceConnectionName string

	JWTSecret           string
	QRStaleWindow       time.Duration
	QRImageSize         int
	ExpirySweepInterval time.Duration
}

// Load reads .env files for local development and then the environment
func Load() *Config {
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		// Try multiple locations for .env file
		if err := godotenv.Load(".env"); err != nil {
			if err := godotenv.Load("environments/.env.development"); err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		UseMemoryStore: os.Getenv("USE_MEMORY_STORE") == "true",

		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPass:                 os.Getenv("DB_PASS"),
		DBName:                 getEnv("DB_NAME", "docverify"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		QRStaleWindow:       getDuration("QR_STALE_WINDOW", 5*time.Minute),
		QRImageSize:         getInt("QR_IMAGE_SIZE", 256),
		ExpirySweepInterval: getDuration("EXPIRY_SWEEP_INTERVAL", time.Hour),
	}
}

// Environment describes where the service is running
func (c *Config) Environment() string {
	if c.InstanceConnectionName != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

// StorageType describes the configured storage backend
func (c *Config) StorageType() string {
	if c.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
