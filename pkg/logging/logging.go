/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging.go
Description: Structured logging setup for MedBayes. Thin configuration layer over
logrus: level and format selection plus a discard logger for library callers that
do not want diagnostics. The CLI owns output destinations; the core packages only
ever receive an already-configured *logrus.Logger.
*/

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level represents the logging level
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents the logging output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds the configuration for a logger
type Config struct {
	Level  Level     `json:"level"`
	Format Format    `json:"format"`
	Output io.Writer `json:"-"` // Defaults to stderr
}

// Validate checks the Config for invalid or missing values
func (c *Config) Validate() error {
	switch c.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	switch c.Format {
	case FormatText, FormatJSON:
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	return nil
}

// New creates a configured logrus logger
func New(config *Config) (*logrus.Logger, error) {
	if config == nil {
		config = &Config{Level: LevelInfo, Format: FormatText}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	logger := logrus.New()

	level, err := logrus.ParseLevel(string(config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch config.Format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if config.Output != nil {
		logger.SetOutput(config.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	return logger, nil
}

// Discard returns a logger that drops everything, for callers that want no
// diagnostics
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
