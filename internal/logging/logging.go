// Package logging provides structured logging with runtime level
// adjustment. The level endpoint lets operators turn on debug logging
// for a live conversation without redeploying.
package logging

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with an adjustable level.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// Config holds configuration for logger initialization.
type Config struct {
	// Level is the initial log level (debug, info, warn, error)
	Level string
	// Format is the output format (json, console)
	Format string
	// Environment is the deployment environment (development, production)
	Environment string
}

// DefaultConfig returns sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Level:       "info",
		Format:      "json",
		Environment: "development",
	}
}

// New creates a new Logger writing to stderr.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	var encoderConfig zapcore.EncoderConfig
	if cfg.Environment == "production" {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), atomicLevel)

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if cfg.Environment == "development" {
		opts = append(opts, zap.Development())
	}

	return &Logger{
		Logger: zap.New(core, opts...),
		level:  atomicLevel,
	}, nil
}

// ParseLevel parses a level string into a zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown level: %s", level)
	}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}

	previous := l.level.String()
	l.level.SetLevel(parsed)
	l.Logger.Info("log level changed",
		zap.String("new_level", parsed.String()),
		zap.String("previous_level", previous),
	)
	return nil
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() string {
	return l.level.String()
}

type levelResponse struct {
	Level   string `json:"level"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ServeHTTP manages the level over HTTP. GET returns the current
// level; PUT and POST set a new one via the "level" query or form
// parameter.
func (l *Logger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(levelResponse{Level: l.GetLevel()})

	case http.MethodPut, http.MethodPost:
		newLevel := r.URL.Query().Get("level")
		if newLevel == "" {
			if err := r.ParseForm(); err == nil {
				newLevel = r.FormValue("level")
			}
		}
		if newLevel == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(levelResponse{Error: "level parameter required"})
			return
		}

		if err := l.SetLevel(newLevel); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(levelResponse{Error: err.Error()})
			return
		}

		_ = json.NewEncoder(w).Encode(levelResponse{Level: l.GetLevel(), Message: "level updated"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(levelResponse{Error: "method not allowed"})
	}
}

// Zap returns the underlying zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.Logger
}
