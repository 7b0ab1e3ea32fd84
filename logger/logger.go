// 包 logger：统一初始化与获取日志器；通过环境变量控制日志级别、输出格式与滚动日志文件
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger *slog.Logger
	rotator       *lumberjack.Logger
)

// Setup：初始化默认日志器
// LOG_LEVEL 控制控制台级别 (debug/info/warn/error)，LOG_FORMAT=json 输出 JSON；
// 设置 LOG_FILE 时额外以 JSON 写入滚动文件，文件始终记录 debug 及以上
func Setup() *slog.Logger {
	lvl := parseLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{Level: lvl}
	var console slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		console = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		console = slog.NewTextHandler(os.Stderr, opts)
	}

	h := console
	if path := os.Getenv("LOG_FILE"); path != "" {
		rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // MB
			MaxBackups: 3,
			LocalTime:  true,
		}
		file := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: slog.LevelDebug})
		h = &multiHandler{console: console, file: file}
	}

	defaultLogger = slog.New(h)
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

// L：获取默认日志器，未初始化时回退到 Setup
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}

// Close：关闭滚动日志文件
func Close() error {
	if rotator == nil {
		return nil
	}
	return rotator.Close()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// multiHandler 按各自级别把记录分发到控制台与文件
type multiHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.file.Enabled(ctx, r.Level) {
		if err := h.file.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	if h.console.Enabled(ctx, r.Level) {
		if err := h.console.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{
		console: h.console.WithAttrs(attrs),
		file:    h.file.WithAttrs(attrs),
	}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{
		console: h.console.WithGroup(name),
		file:    h.file.WithGroup(name),
	}
}
