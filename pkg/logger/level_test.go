package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelAttrReplacer(t *testing.T) {
	testCases := []struct {
		level    slog.Level
		expected any
	}{
		{slog.LevelInfo, slog.LevelInfo},
		{slog.LevelError, slog.LevelError},
		{LevelCritical, "CRITICAL"},
		{LevelCritical + 1, "CRITICAL+1"},
		{LevelPanic, "PANIC"},
		{LevelFatal, "FATAL"},
		{LevelFatal + 2, "FATAL+2"},
	}
	for _, tc := range testCases {
		attr := levelAttrReplacer(nil, slog.Any(LevelKey, tc.level))
		assert.Equal(t, tc.expected, attr.Value.Any(), tc.level.String())
	}

	grouped := levelAttrReplacer([]string{"request"}, slog.Any(LevelKey, LevelFatal))
	assert.Equal(t, LevelFatal, grouped.Value.Any())
}

func TestGCPAttrReplacer(t *testing.T) {
	attr := GCPAttrReplacer(nil, slog.Any(LevelKey, slog.LevelWarn))
	assert.Equal(t, "severity", attr.Key)
	assert.Equal(t, "WARNING", attr.Value.String())

	assert.Equal(t, "message", GCPAttrReplacer(nil, slog.String(MessageKey, "hi")).Key)
	assert.Equal(t, "EMERGENCY", gcpSeverity(LevelFatal))
	assert.Equal(t, "ALERT", gcpSeverity(LevelPanic))
}
