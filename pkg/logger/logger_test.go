package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		envLevel      string
		logFormat     string
		development   bool
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{
			name:          "production defaults to info json",
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
		{
			name:          "development defaults to debug text",
			development:   true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    false,
		},
		{
			name:          "explicit level wins over environment",
			logLevel:      "warn",
			envLevel:      "debug",
			expectedLevel: logrus.WarnLevel,
			expectJSON:    true,
		},
		{
			name:          "environment level used when none given",
			envLevel:      "ERROR",
			expectedLevel: logrus.ErrorLevel,
			expectJSON:    true,
		},
		{
			name:          "development with json format",
			logFormat:     "json",
			development:   true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    true,
		},
		{
			name:          "invalid level defaults to info",
			logLevel:      "loud",
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envLevel)
			t.Setenv("LOG_FORMAT", tt.logFormat)
			Logger = nil

			log := InitLogger(tt.logLevel, tt.development)

			assert.Equal(t, tt.expectedLevel, log.GetLevel(), "log level mismatch")
			if tt.expectJSON {
				_, ok := log.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "expected JSON formatter")
			} else {
				_, ok := log.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "expected text formatter")
			}
		})
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be valid JSON")
	return entry
}

func TestNewWritesToOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf})
	log.Debug("engine ready")

	assert.Equal(t, "engine ready", decode(t, &buf)["msg"])
}

func TestWithMatch(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf})

	WithMatch(WithService(log, "esms"), "m-1", "LIV", "EVE").Info("kick-off")

	entry := decode(t, &buf)
	assert.Equal(t, "kick-off", entry["msg"])
	assert.Equal(t, "esms", entry["service"])
	assert.Equal(t, "m-1", entry["match_id"])
	assert.Equal(t, "LIV", entry["home"])
	assert.Equal(t, "EVE", entry["away"])
}

func TestWithTeam(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf})

	WithTeam(WithMatch(log, "m-2", "LIV", "EVE"), "EVE", 1).Info("substitution")

	entry := decode(t, &buf)
	assert.Equal(t, "m-2", entry["match_id"])
	assert.Equal(t, "EVE", entry["team"])
	assert.EqualValues(t, 1, entry["side"])
}

func TestHelpersFallBackToGlobalLogger(t *testing.T) {
	Logger = nil
	entry := WithService(nil, "calibrate")
	assert.Same(t, GetLogger(), entry.Logger)
	assert.Equal(t, "calibrate", entry.Data["service"])
}

func TestGetLogger(t *testing.T) {
	Logger = nil

	logger1 := GetLogger()
	assert.NotNil(t, logger1)

	logger2 := GetLogger()
	assert.Same(t, logger1, logger2)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() { log.WithField("k", "v").Error("dropped") })
}
