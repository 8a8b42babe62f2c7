// Package logger sets up log/slog for the emulator.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
)

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log level must be one of: debug, info, warn, error; got %q", s)
}

// New builds a logger writing to w in text or json format. Source file
// names have rootPath trimmed from them.
func New(w io.Writer, level, format, rootPath string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	ho := slog.HandlerOptions{
		Level: lvl,
	}

	var h slog.Handler
	switch format {
	case "json":
		h = slog.NewJSONHandler(w, &ho)
	case "text", "":
		h = slog.NewTextHandler(w, &ho)
	default:
		return nil, fmt.Errorf("log format must be json or text; got %q", format)
	}

	root := ""
	if rootPath != "" {
		root = strings.TrimSuffix(rootPath, "/") + "/"
	}

	return slog.New(&handler{
		baseHandler: h,
		rootPath:    root,
		addSource:   lvl <= slog.LevelDebug,
	}), nil
}

// Setup is New followed by slog.SetDefault.
func Setup(w io.Writer, level, format, rootPath string) (*slog.Logger, error) {
	l, err := New(w, level, format, rootPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return l, nil
}

type handler struct {
	baseHandler slog.Handler
	rootPath    string
	addSource   bool
}

func (e *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return e.baseHandler.Enabled(ctx, level)
}

func (e *handler) Handle(ctx context.Context, record slog.Record) error {
	if !e.addSource || record.PC == 0 {
		return e.baseHandler.Handle(ctx, record)
	}

	record = record.Clone()

	hasSource := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == slog.SourceKey {
			hasSource = true
			return false
		}
		return true
	})

	if !hasSource {
		record.AddAttrs(e.sourceAttr(record.PC))
	}

	return e.baseHandler.Handle(ctx, record)
}

func (e *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		baseHandler: e.baseHandler.WithAttrs(attrs),
		rootPath:    e.rootPath,
		addSource:   e.addSource,
	}
}

func (e *handler) WithGroup(name string) slog.Handler {
	return &handler{
		baseHandler: e.baseHandler.WithGroup(name),
		rootPath:    e.rootPath,
		addSource:   e.addSource,
	}
}

func (e *handler) sourceAttr(pc uintptr) slog.Attr {
	fs := runtime.CallersFrames([]uintptr{pc})
	f, _ := fs.Next()
	file := f.File
	if e.rootPath != "" && strings.HasPrefix(file, e.rootPath) {
		file = file[len(e.rootPath):]
	}

	return slog.Any(slog.SourceKey, &slog.Source{
		Function: f.Function,
		File:     file,
		Line:     f.Line,
	})
}
