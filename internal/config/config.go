package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// MySQL (media reference table)
	Database DatabaseConfig `json:"database"`

	// MongoDB (media metadata collections)
	MongoDB MongoDBConfig `json:"mongodb"`

	// Media pipeline configuration
	Media MediaConfig `json:"media"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoDBConfig contains MongoDB connection configuration
type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// MediaConfig contains media storage and derivative settings
type MediaConfig struct {
	// RootDir is the local media root under which all files are written.
	RootDir string `json:"root_dir"`
	// ServerURL, when set, prefixes every returned media URL. It never
	// changes the on-disk layout.
	ServerURL string `json:"server_url"`
	// OutputFormat is the derivative encoding format ("original" keeps the
	// source format).
	OutputFormat string `json:"output_format"`
	// Quality is the re-encode quality for lossy formats (1-100).
	Quality int `json:"quality"`
	// Sizes are the configured derivative widths by label, parsed from
	// MEDIA_SIZES ("medium:800,large:1600"). Thumbnail is always added on
	// top of these.
	Sizes map[string]int `json:"sizes"`
}

func LoadConfig() *Config {
	// .env is optional; deployed environments set variables directly
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("SERVER_PORT", "8080"),
			Host:        getEnvOrDefault("SERVER_HOST", ""),
			Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "mediacms"),
			Password:     getEnvOrDefault("DB_PASSWORD", ""),
			DatabaseName: getEnvOrDefault("DB_NAME", "mediacms"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USER", ""),
			Password: getEnvOrDefault("MONGO_PASSWORD", ""),
			Database: getEnvOrDefault("MONGO_DB", "mediacms"),
		},
		Media: MediaConfig{
			RootDir:      getEnvOrDefault("MEDIA_ROOT", "mediaFiles"),
			ServerURL:    getEnvOrDefault("MEDIA_SERVER_URL", ""),
			OutputFormat: getEnvOrDefault("MEDIA_OUTPUT_FORMAT", "original"),
			Quality:      getEnvIntOrDefault("MEDIA_QUALITY", 80),
			Sizes:        ParseSizes(getEnvOrDefault("MEDIA_SIZES", "")),
		},
	}
}

// ParseSizes parses a "label:width,label:width" variant list. Malformed
// entries are skipped. The zero-width "original" sentinel is reserved and
// cannot be configured here.
func ParseSizes(raw string) map[string]int {
	sizes := make(map[string]int)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			continue
		}
		label := strings.TrimSpace(parts[0])
		width, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || width <= 0 || label == "" || label == "original" {
			continue
		}
		sizes[label] = width
	}
	return sizes
}

// DSN builds the MySQL connection string
func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// GetMongoURI builds the MongoDB connection URI
func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s",
			cfg.MongoDB.Username, cfg.MongoDB.Password, cfg.MongoDB.Host, cfg.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s", cfg.MongoDB.Host, cfg.MongoDB.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
