package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const defaultLogPath = "./rugscope.log"

// InitLog sends logrus output to stdout and logPath, creating the log
// directory when needed. An unknown level falls back to info.
func InitLog(logPath, level, format string) error {
	if logPath == "" {
		logPath = defaultLogPath
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log dir for %s is err: %w", logPath, err)
	}
	file, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s is err: %w", logPath, err)
	}

	logrus.SetOutput(io.MultiWriter(os.Stdout, file))
	logrus.SetLevel(parseLevel(level))
	logrus.SetFormatter(newFormatter(format))
	return nil
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func newFormatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}
