package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/logging"
)

// ServiceName is used to tag log lines and outgoing events
const ServiceName = "rider-safety-api"

// Config holds the project config values. It is built once at startup and
// passed by value or pointer to whatever needs it; nothing mutates it after New.
type Config struct {
	Env         string
	Port        string
	BaseURL     string
	CORSOrigins []string
	Database    DatabaseConfig
	Session     SessionConfig
	Storage     StorageConfig
	Vision      VisionConfig
	RabbitMQ    RabbitMQConfig
	Mail        MailConfig
	Scheduler   SchedulerConfig
}

// DatabaseConfig holds the mongo connection settings
type DatabaseConfig struct {
	URL  string
	Name string
}

// SessionConfig holds the session token settings
type SessionConfig struct {
	Secret     string
	TokenTTL   time.Duration
	CookieName string
	CookieDays int
}

// StorageConfig holds the cloudinary credentials used for violation images
type StorageConfig struct {
	CloudinaryURL string
	CloudName     string
	APIKey        string
	APISecret     string
	Folder        string
}

// VisionConfig holds the image classifier credentials
type VisionConfig struct {
	// ServiceKey is a base64 encoded google service account JSON document
	ServiceKey string
	Timeout    time.Duration
}

// RabbitMQConfig holds the event publisher settings. An empty URL disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// MailConfig holds the sendgrid settings. An empty APIKey disables email.
type MailConfig struct {
	SendGridAPIKey string
	From           string
	FromName       string
}

// SchedulerConfig holds the background job settings
type SchedulerConfig struct {
	ReminderSchedule string
	ReminderAfter    time.Duration
}

// LoadEnvFile loads key/value pairs from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// New sets up all config related services
func New() *Config {
	c := &Config{
		Env:         getEnv("APP_ENV", "production"),
		Port:        getEnv("PORT", "6001"),
		BaseURL:     os.Getenv("BASE_URL"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Database: DatabaseConfig{
			URL:  os.Getenv("DB_URI"),
			Name: getEnv("DB_NAME", "rider-safety"),
		},
		Session: SessionConfig{
			Secret:     os.Getenv("JWT_TOKEN_SECRET"),
			TokenTTL:   getEnvAsDuration("JWT_TOKEN_EXPIRES_IN", 90*24*time.Hour),
			CookieName: "jwt",
			CookieDays: getEnvAsInt("JWT_COOKIE_EXPIRES_IN", 90),
		},
		Storage: StorageConfig{
			CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			CloudName:     os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:        os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:     os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:        getEnv("CLOUDINARY_FOLDER", "instances"),
		},
		Vision: VisionConfig{
			ServiceKey: os.Getenv("GOOGLE_SERVICE_KEY"),
			Timeout:    getEnvAsDuration("VISION_TIMEOUT", 30*time.Second),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "rider-safety.events"),
		},
		Mail: MailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			From:           getEnv("MAIL_FROM", "no-reply@rider-safety.app"),
			FromName:       getEnv("MAIL_FROM_NAME", "Rider Safety"),
		},
		Scheduler: SchedulerConfig{
			ReminderSchedule: getEnv("CHALLAN_REMINDER_SCHEDULE", "0 3 * * *"),
			ReminderAfter:    getEnvAsDuration("CHALLAN_REMINDER_AFTER", 7*24*time.Hour),
		},
	}

	//setup zap logger and replace default logger
	logger, err := setLogger(c.Env)
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	return c
}

// Validate reports the first required setting that is missing
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DB_URI is required but not set in environment variables")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("JWT_TOKEN_SECRET is required but not set in environment variables")
	}
	return nil
}

func setLogger(env string) (*zap.Logger, error) {
	return logging.New(env, ServiceName)
}

type failureResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(failureResponse{Status: "failure", Message: message})
}

// WriteError maps err onto its status code and writes it. Client errors carry
// their own message; server errors are reported with the given fallback so
// internals don't leak.
func WriteError(fallback string, w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := fallback
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	ErrorStatus(message, status, w, err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
