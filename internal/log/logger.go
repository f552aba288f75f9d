/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log configures the process-wide slog logger for quotegen.
//
// Console output uses a compact single-line text handler (or JSON), and an
// optional rotating file sink always writes JSON. Every record carries the
// application name and version; records logged through a context created by
// ContextWithOperation also carry the operation name.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"quotegen/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Values can be provided directly or via environment variables:
//   - QG_LOG_LEVEL=debug|info|warn|error
//   - QG_LOG_FORMAT=console|json
//   - QG_LOG_FILE=<path> (enables file logging with rotation)
//   - QG_LOG_SOURCE=true|false (include source)
//
// Defaults: INFO level, console format, no source, no file.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string // optional path for file logging (rotated)
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	sink    io.Closer
	console io.Writer = os.Stderr
)

// L returns the application logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the application logger and slog.Default. A file sink opened by
// a previous Init is closed.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	var handlers []slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		handlers = append(handlers, slog.NewJSONHandler(console, hopts))
	default:
		handlers = append(handlers, newLineHandler(console, lvl, opts.AddSource))
	}

	var fileSink io.Closer
	if path := strings.TrimSpace(opts.File); path != "" {
		w := &lj.Logger{Filename: path, MaxSize: 5, MaxBackups: 2, MaxAge: 14, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
		fileSink = w
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	logger := slog.New(opContext{next: h}).With(
		slog.String("app", "quotegen"),
		slog.String("ver", version.Version),
	)

	mu.Lock()
	prev := sink
	current, sink = logger, fileSink
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating file sink, if any.
func Close() error {
	mu.Lock()
	s := sink
	sink = nil
	mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("QG_LOG_LEVEL", "info"),
		Format:    getenv("QG_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("QG_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("QG_LOG_FILE"),
	}
}

// Merge returns o with empty fields filled from fallback.
func (o Options) Merge(fallback Options) Options {
	if strings.TrimSpace(o.Level) == "" {
		o.Level = fallback.Level
	}
	if strings.TrimSpace(o.Format) == "" {
		o.Format = fallback.Format
	}
	if strings.TrimSpace(o.File) == "" {
		o.File = fallback.File
	}
	o.AddSource = o.AddSource || fallback.AddSource
	return o
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type opKey struct{}

// ContextWithOperation stores an operation name that is attached to every
// record logged with that context.
func ContextWithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// opContext copies the context operation name onto records.
type opContext struct{ next slog.Handler }

func (h opContext) Enabled(ctx context.Context, l slog.Level) bool { return h.next.Enabled(ctx, l) }

func (h opContext) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if op, ok := ctx.Value(opKey{}).(string); ok && op != "" {
			r = r.Clone()
			r.AddAttrs(slog.String("op", op))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h opContext) WithAttrs(a []slog.Attr) slog.Handler { return opContext{next: h.next.WithAttrs(a)} }
func (h opContext) WithGroup(n string) slog.Handler { return opContext{next: h.next.WithGroup(n)} }

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(a []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(a)
	}
	return out
}

func (f fanout) WithGroup(n string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(n)
	}
	return out
}
