package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV string
	PORT   int
	// Storage backend: "file", "redis" or "memory"
	STORAGE_BACKEND string
	DATA_DIR        string
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Single account credentials; the hash wins when both are set
	AUTH_USERNAME      string
	AUTH_PASSWORD      string
	AUTH_PASSWORD_HASH string
	// Redis Configuration
	REDIS_URL string
	// CORS
	ALLOWED_ORIGINS string
	// DigitalOcean Spaces backup target
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	// Background jobs
	CRON_ENABLED bool
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = "file"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	username := os.Getenv("AUTH_USERNAME")
	if username == "" {
		username = "sage"
	}

	cronEnabled := true
	if raw := os.Getenv("CRON_ENABLED"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			cronEnabled = parsed
		}
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:          os.Getenv("GO_ENV"),
		PORT:            port,
		STORAGE_BACKEND: backend,
		DATA_DIR:        dataDir,
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Auth
		AUTH_USERNAME:      username,
		AUTH_PASSWORD:      os.Getenv("AUTH_PASSWORD"),
		AUTH_PASSWORD_HASH: os.Getenv("AUTH_PASSWORD_HASH"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// CORS
		ALLOWED_ORIGINS: origins,
		// DigitalOcean
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   os.Getenv("DO_SPACES_REGION"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),
		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		CRON_ENABLED:       cronEnabled,
	}

	return envVariables, nil
}

// BackupConfigured reports whether the Spaces backup target is usable.
func (e *EnviornmentVariable) BackupConfigured() bool {
	return e.DO_SPACES_BUCKET != "" && e.DO_SPACES_ENDPOINT != "" &&
		e.DO_SPACES_KEY != "" && e.DO_SPACES_SECRET != ""
}
