package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

func New(component string) *slog.Logger {
	var out io.Writer = os.Stdout
	if f := os.Getenv("LOG_FILE"); f != "" {
		out = &lumberjack.Logger{Filename: f, MaxSize: 100, MaxBackups: 3, MaxAge: 28}
	}
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	}
	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}
