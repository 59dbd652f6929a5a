package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// storage config
	DATA_FILE_PATH string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	// notification config
	SMTP_HOST          string
	SMTP_PORT          int
	SMTP_USERNAME      string
	SMTP_PASSWORD      string
	SMTP_SENDER        string
	NOTIFY_MAX_RETRIES int
	NOTIFY_BACKOFF     time.Duration
	// report config
	REPORT_EXPORT_PATH string
	REPORT_LAYOUT_PATH string
}

// SMTPEnabled reports whether enough settings are present to send email.
func (c *envConfig) SMTPEnabled() bool {
	return c.SMTP_HOST != "" && c.SMTP_USERNAME != "" && c.SMTP_PASSWORD != ""
}

// LoadEnvConfig reads the given env files (".env" by default) and the process
// environment. A missing env file is not an error.
func LoadEnvConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		DATA_FILE_PATH:     getEnvString("DATA_FILE_PATH", "employees.csv"),
		LOG_FILE_PATH:      getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:          getEnvString("LOG_LEVEL", "info"),
		SMTP_HOST:          getEnvString("SMTP_HOST", "smtp.gmail.com"),
		SMTP_PORT:          getEnvInt("SMTP_PORT", 465),
		SMTP_USERNAME:      getEnvString("SMTP_USERNAME", ""),
		SMTP_PASSWORD:      getEnvString("SMTP_PASSWORD", ""),
		SMTP_SENDER:        getEnvString("SMTP_SENDER", ""),
		NOTIFY_MAX_RETRIES: getEnvInt("NOTIFY_MAX_RETRIES", 2),
		NOTIFY_BACKOFF:     getEnvDuration("NOTIFY_BACKOFF", 500*time.Millisecond),
		REPORT_EXPORT_PATH: getEnvString("REPORT_EXPORT_PATH", ""),
		REPORT_LAYOUT_PATH: getEnvString("REPORT_LAYOUT_PATH", ""),
	}
	if DefaultEnvConfig.SMTP_SENDER == "" {
		DefaultEnvConfig.SMTP_SENDER = DefaultEnvConfig.SMTP_USERNAME
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Millisecond
		}
	}
	return fallback
}
