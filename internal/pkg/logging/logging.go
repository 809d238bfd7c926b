package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LOG_MAX_SIZE_MB  = 20
	LOG_MAX_BACKUPS  = 5
	LOG_MAX_AGE_DAYS = 28
)

// Setup routes the standard logger through a JSON slog handler tagged with
// the binary name and mode, and installs it as the slog default. A non-empty
// file additionally receives the same lines with size-based rotation.
func Setup(service, mode, file string) *slog.Logger {
	var w io.Writer = os.Stdout
	if file = strings.TrimSpace(file); file != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    LOG_MAX_SIZE_MB,
			MaxBackups: LOG_MAX_BACKUPS,
			MaxAge:     LOG_MAX_AGE_DAYS,
			Compress:   true,
		})
	}
	return setup(w, service, mode)
}

func setup(w io.Writer, service, mode string) *slog.Logger {
	level := slog.LevelInfo
	if mode == "debug" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				return slog.Attr{Key: "ts", Value: attr.Value}
			case slog.LevelKey:
				return slog.String("level", strings.ToLower(attr.Value.String()))
			case slog.MessageKey:
				return slog.String("msg", strings.TrimRight(attr.Value.String(), "\n"))
			}
			return attr
		},
	})

	attrs := []slog.Attr{slog.String("service", strings.TrimSpace(service))}
	if mode = strings.TrimSpace(mode); mode != "" {
		attrs = append(attrs, slog.String("mode", mode))
	}

	withAttrs := handler.WithAttrs(attrs)
	logger := slog.New(withAttrs)
	slog.SetDefault(logger)

	bridge := slog.NewLogLogger(withAttrs, slog.LevelInfo)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return logger
}
