package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// configureLogger builds the command logger. Precedence: --log-level wins,
// then the command's verbose flag, then the configured default level.
// An unparseable configured default degrades to info; an invalid flag value
// is an error.
func configureLogger(cmd *cobra.Command, verboseFlagName, defaultLevel string) (*logrus.Logger, error) {
	var level logrus.Level

	levelStr, _ := cmd.Flags().GetString("log-level")
	verbose, _ := cmd.Flags().GetBool(verboseFlagName)

	switch {
	case levelStr != "":
		switch levelStr {
		case "debug":
			level = logrus.DebugLevel
		case "info":
			level = logrus.InfoLevel
		case "warn":
			level = logrus.WarnLevel
		case "error":
			level = logrus.ErrorLevel
		default:
			return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", levelStr)
		}
	case verbose:
		level = logrus.DebugLevel
	default:
		parsed, err := logrus.ParseLevel(defaultLevel)
		if err != nil {
			parsed = logrus.InfoLevel
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger, nil
}
