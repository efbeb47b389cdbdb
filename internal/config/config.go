package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export backend names accepted in EXPORT_BACKEND.
const (
	ExportCSV    = "csv"
	ExportSheets = "sheets"
)

type Config struct {
	// Database
	DBPath string

	// Export
	ExportBackend string
	ExportDir     string

	// Google Sheets (only read when ExportBackend is "sheets")
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath: getEnv("TRACKER_DB_PATH", "./data/expenses.db"),

		ExportBackend: getEnv("EXPORT_BACKEND", ExportCSV),
		ExportDir:     getEnv("TRACKER_EXPORT_DIR", "."),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	switch c.ExportBackend {
	case ExportCSV:
		if c.ExportDir == "" {
			errs = append(errs, "export directory cannot be empty when using csv export")
		}
	case ExportSheets:
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "GOOGLE_SPREADSHEET_ID is required when using sheets export")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid export backend '%s': must be one of [%s %s]", c.ExportBackend, ExportCSV, ExportSheets))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
