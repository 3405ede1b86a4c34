// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	glog "github.com/labstack/gommon/log"
)

// EchoLogger implements echo's Logger interface on top of slog. Levels below the one set
// through SetLevel are dropped before they reach slog.
type EchoLogger struct {
	Logger *slog.Logger
	level  glog.Lvl
}

func NewEchoLogger() *EchoLogger {
	return &EchoLogger{
		Logger: slog.Default(),
		level:  glog.DEBUG,
	}
}

func slogLevel(lvl glog.Lvl) slog.Level {
	switch lvl {
	case glog.DEBUG:
		return slog.LevelDebug
	case glog.WARN:
		return slog.LevelWarn
	case glog.ERROR:
		return slog.LevelError
	case glog.OFF:
		return NoLoggingLevel
	default:
		return slog.LevelInfo
	}
}

func (l *EchoLogger) log(lvl glog.Lvl, msg string, args ...any) {
	if lvl < l.level {
		return
	}
	l.Logger.Log(context.Background(), slogLevel(lvl), msg, args...)
}

func (l *EchoLogger) Output() io.Writer { return io.Discard }

// output, prefix and header are owned by the slog handler
func (l *EchoLogger) SetOutput(io.Writer) {}
func (l *EchoLogger) Prefix() string      { return "" }
func (l *EchoLogger) SetPrefix(string)    {}
func (l *EchoLogger) SetHeader(string)    {}

func (l *EchoLogger) Level() glog.Lvl { return l.level }

func (l *EchoLogger) SetLevel(v glog.Lvl) { l.level = v }

func (l *EchoLogger) Print(i ...any)                    { l.log(glog.INFO, fmt.Sprint(i...)) }
func (l *EchoLogger) Printf(format string, args ...any) { l.log(glog.INFO, fmt.Sprintf(format, args...)) }
func (l *EchoLogger) Printj(j glog.JSON)                { l.log(glog.INFO, "json", "data", j) }

func (l *EchoLogger) Debug(i ...any)                    { l.log(glog.DEBUG, fmt.Sprint(i...)) }
func (l *EchoLogger) Debugf(format string, args ...any) { l.log(glog.DEBUG, fmt.Sprintf(format, args...)) }
func (l *EchoLogger) Debugj(j glog.JSON)                { l.log(glog.DEBUG, "json", "data", j) }

func (l *EchoLogger) Info(i ...any)                    { l.log(glog.INFO, fmt.Sprint(i...)) }
func (l *EchoLogger) Infof(format string, args ...any) { l.log(glog.INFO, fmt.Sprintf(format, args...)) }
func (l *EchoLogger) Infoj(j glog.JSON)                { l.log(glog.INFO, "json", "data", j) }

func (l *EchoLogger) Warn(i ...any)                    { l.log(glog.WARN, fmt.Sprint(i...)) }
func (l *EchoLogger) Warnf(format string, args ...any) { l.log(glog.WARN, fmt.Sprintf(format, args...)) }
func (l *EchoLogger) Warnj(j glog.JSON)                { l.log(glog.WARN, "json", "data", j) }

func (l *EchoLogger) Error(i ...any)                    { l.log(glog.ERROR, fmt.Sprint(i...)) }
func (l *EchoLogger) Errorf(format string, args ...any) { l.log(glog.ERROR, fmt.Sprintf(format, args...)) }
func (l *EchoLogger) Errorj(j glog.JSON)                { l.log(glog.ERROR, "json", "data", j) }

func (l *EchoLogger) Fatal(i ...any) {
	l.Logger.Error(fmt.Sprint(i...))
	os.Exit(1)
}

func (l *EchoLogger) Fatalf(format string, args ...any) {
	l.Logger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

func (l *EchoLogger) Fatalj(j glog.JSON) {
	l.Logger.Error("json", "data", j)
	os.Exit(1)
}

func (l *EchoLogger) Panic(i ...any) {
	s := fmt.Sprint(i...)
	l.Logger.Error(s)
	panic(s)
}

func (l *EchoLogger) Panicf(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	l.Logger.Error(s)
	panic(s)
}

func (l *EchoLogger) Panicj(j glog.JSON) {
	l.Logger.Error("json", "data", j)
	panic(j)
}
