package logger

import (
	"log/slog"
)

// durationToMsAttrReplacer renders durations as milliseconds for machine-readable outputs.
func durationToMsAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindDuration {
		return slog.Attr{
			Key:   attr.Key,
			Value: slog.Int64Value(attr.Value.Duration().Milliseconds()),
		}
	}
	return attr
}
