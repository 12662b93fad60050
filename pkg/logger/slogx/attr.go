// Package slogx holds attribute constructors shared by every log call site.
package slogx

import (
	"log/slog"
	"time"
)

// ErrorKey is the attribute key used by [Error].
const ErrorKey = "error"

// Error returns an attr for err, or an empty attr (dropped by handlers) when err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int64(key, int64(value))
}

func Time(key string, v time.Time) slog.Attr {
	return slog.Time(key, v)
}

func Duration(key string, v time.Duration) slog.Attr {
	return slog.Duration(key, v)
}
