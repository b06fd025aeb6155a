// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/sortdrop/pkg/operation"
	"github.com/walteh/sortdrop/pkg/organize"
	"github.com/walteh/sortdrop/pkg/status"
)

var _ operation.Reporter = (*Logger)(nil)

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.Formatter
	rows      bool
	mu        sync.Mutex
}

// 🏭 New creates a new logger writing user lines to console
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFormatter(),
	}
}

// WithRows switches result output to aligned table rows
func (l *Logger) WithRows(rows bool) *Logger {
	l.rows = rows
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📣 Report prints one batch item and mirrors it to zerolog
func (l *Logger) Report(ctx context.Context, item operation.Item) {
	if item.Err != nil {
		l.LogFailure(ctx, item.Path, item.Err)
		return
	}
	l.LogResult(ctx, item.Result, item.DryRun)
}

// 📝 LogResult logs a finished or planned organize call
func (l *Logger) LogResult(ctx context.Context, res *organize.Result, dryRun bool) {
	if res == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rows {
		fmt.Fprintln(l.console, status.FormatResultLine(res))
	} else {
		fmt.Fprintln(l.console, l.outcomeColor(res.Outcome).Sprint(l.formatter.FormatResult(res, dryRun)))
	}

	l.zlog.Info().
		Str("source", res.Source).
		Str("destination", res.Destination).
		Str("category", res.Category).
		Str("outcome", res.Outcome.String()).
		Int64("size", res.Size).
		Bool("dry_run", dryRun).
		Msg("organize result")
}

// 📝 LogFailure logs a path that could not be organized
func (l *Logger) LogFailure(ctx context.Context, path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rows {
		fmt.Fprintln(l.console, status.FormatFailureLine(path, err))
	} else {
		fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprintf("%s: %v", path, err))
	}

	l.zlog.Error().
		Err(err).
		Str("source", path).
		Str("kind", organize.KindOf(err).String()).
		Msg("organize failed")
}

// 📝 LogSummary logs the totals of a batch
func (l *Logger) LogSummary(ctx context.Context, s *operation.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := l.formatter.FormatSummary(s)
	c := color.New(color.FgGreen)
	if s != nil && s.Failed > 0 {
		c = color.New(color.FgYellow)
	}
	fmt.Fprintln(l.console, c.Sprint(line))

	if s == nil {
		return
	}
	l.zlog.Info().
		Int("items", s.Items).
		Int("moved", s.Moved).
		Int("renamed", s.Renamed).
		Int("replaced", s.Replaced).
		Int("skipped", s.Skipped).
		Int("failed", s.Failed).
		Int64("bytes", s.Bytes).
		Msg("batch summary")
}

func (l *Logger) outcomeColor(o organize.Outcome) *color.Color {
	switch o {
	case organize.OutcomeMoved:
		return color.New(color.FgGreen)
	case organize.OutcomeRenamed:
		return color.New(color.FgBlue)
	case organize.OutcomeReplaced:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("sortdrop")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
