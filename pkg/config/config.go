package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	ServerPort  string `yaml:"server_port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	StorageDriver string `yaml:"storage_driver"`
	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_database"`

	FirebaseProject         string `yaml:"firebase_project_id"`
	FirebaseCredentialsJSON string `yaml:"-"`
	FirebaseCredentialsPath string `yaml:"firebase_service_account_path"`
	AuthEnabled             bool   `yaml:"auth_enabled"`
	StorageBucket           string `yaml:"storage_bucket"`

	EventQueueSize           int `yaml:"event_queue_size"`
	SendMessageRatePerMinute int `yaml:"send_message_rate_per_minute"`
	SendMessageBurst         int `yaml:"send_message_burst"`
	APIRatePerMinute         int `yaml:"api_rate_per_minute"`
}

func defaults() *Config {
	return &Config{
		ServerPort:               "8080",
		Environment:              "development",
		LogLevel:                 "info",
		StorageDriver:            StorageMongo,
		MongoDatabase:            "charityconnect",
		EventQueueSize:           256,
		SendMessageRatePerMinute: 10,
		SendMessageBurst:         10,
		APIRatePerMinute:         120,
	}
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then environment overrides.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", cfg.StorageDriver))
	cfg.MongoURI = getEnv("MONGODB_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGODB_DATABASE", cfg.MongoDatabase)
	cfg.FirebaseProject = getEnv("FIREBASE_PROJECT_ID", cfg.FirebaseProject)
	cfg.FirebaseCredentialsJSON = getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", cfg.FirebaseCredentialsJSON)
	cfg.FirebaseCredentialsPath = getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", cfg.FirebaseCredentialsPath)
	cfg.AuthEnabled = getEnvAsBool("AUTH_ENABLED", cfg.AuthEnabled)
	cfg.StorageBucket = getEnv("STORAGE_BUCKET", cfg.StorageBucket)
	cfg.EventQueueSize = getEnvAsInt("EVENT_QUEUE_SIZE", cfg.EventQueueSize)
	cfg.SendMessageRatePerMinute = getEnvAsInt("SEND_MESSAGE_RATE_PER_MINUTE", cfg.SendMessageRatePerMinute)
	cfg.SendMessageBurst = getEnvAsInt("SEND_MESSAGE_BURST", cfg.SendMessageBurst)
	cfg.APIRatePerMinute = getEnvAsInt("API_RATE_PER_MINUTE", cfg.APIRatePerMinute)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORAGE_DRIVER=%s", StorageMongo)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.AuthEnabled && c.FirebaseProject == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required when AUTH_ENABLED=true")
	}
	if c.EventQueueSize <= 0 {
		return fmt.Errorf("EVENT_QUEUE_SIZE must be positive")
	}
	return nil
}

// HasFirebase reports whether Firebase/Firestore clients can be built from this config.
func (c *Config) HasFirebase() bool {
	return c.FirebaseProject != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
