package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileLogger builds a logrus logger that tees output to the given file and
// stderr. The caller owns closing the file.
func FileLogger(level logrus.Level, logPath string) (*os.File, *logrus.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := &logrus.Logger{
		Out:       io.MultiWriter(os.Stderr, f),
		Formatter: &logrus.TextFormatter{FullTimestamp: true},
		Level:     level,
		Hooks:     make(logrus.LevelHooks),
	}
	return f, logger, nil
}

// ConsoleLogger is used by commands and tests where a log file is unwanted.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	return &logrus.Logger{
		Out:       os.Stderr,
		Formatter: &logrus.TextFormatter{FullTimestamp: true},
		Level:     level,
		Hooks:     make(logrus.LevelHooks),
	}
}
