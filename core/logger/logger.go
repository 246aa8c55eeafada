package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.RWMutex
	log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init reconfigures the package logger. Call once at startup, before any
// request handling begins.
func Init(level string, jsonOutput bool) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	mu.Lock()
	log = slog.New(handler)
	mu.Unlock()
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, args ...any) {
	get().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}

// AsynqLogger adapts the package logger to asynq's logging interface.
type AsynqLogger struct{}

func Asynq() AsynqLogger { return AsynqLogger{} }

func (AsynqLogger) Debug(args ...interface{}) { get().Debug(formatAsynq(args)) }
func (AsynqLogger) Info(args ...interface{})  { get().Info(formatAsynq(args)) }
func (AsynqLogger) Warn(args ...interface{})  { get().Warn(formatAsynq(args)) }
func (AsynqLogger) Error(args ...interface{}) { get().Error(formatAsynq(args)) }
func (AsynqLogger) Fatal(args ...interface{}) {
	get().Error(formatAsynq(args))
	os.Exit(1)
}

func formatAsynq(args []any) string {
	return strings.TrimSpace(fmt.Sprintln(args...))
}

// normalize tolerates a bare error passed where a key/value pair is expected,
// so call sites may write Error("Repo:Create", err) as well as
// Error("Repo:Create", "error", err).
func normalize(args []any) []any {
	out := make([]any, 0, len(args)+1)
	for i := 0; i < len(args); i++ {
		if err, ok := args[i].(error); ok {
			out = append(out, "error", err)
			continue
		}
		if i+1 < len(args) {
			out = append(out, args[i], args[i+1])
			i++
			continue
		}
		out = append(out, "arg", args[i])
	}
	return out
}
