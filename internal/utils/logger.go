package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log = logrus.New()

type LoggerConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

func InitLogger(config LoggerConfig) {
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	SetLogLevel(Log, config.Level)

	if strings.TrimSpace(config.File) == "" {
		Log.SetOutput(os.Stdout)
		return
	}
	Log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.MaxSizeMB, // megabytes
		MaxBackups: config.MaxBackups,
		MaxAge:     28, //days
		Compress:   config.Compress,
	}))
}

func SetLogLevel(l *logrus.Logger, level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string, extra ...logrus.Fields) {
	fields := logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	}
	for _, f := range extra {
		for k, v := range f {
			fields[k] = v
		}
	}
	Log.WithFields(fields).Info(message)
}

// Actor returns the user fields for an event; empty when the caller is anonymous.
func Actor(userID, role string) logrus.Fields {
	if userID == "" && role == "" {
		return nil
	}
	return logrus.Fields{"user_id": userID, "role": role}
}
