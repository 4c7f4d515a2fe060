// Package logging builds the logrus logger from the logging configuration.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/wcrbrm/serve-delayed/internal/config"
)

// New creates a logger writing to out with the configured level and format.
func New(cfg config.LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", cfg.Format)
	}

	return logger, nil
}
