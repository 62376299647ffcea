package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  logrus.Level
	}{
		{"", logrus.WarnLevel},
		{"debug", logrus.DebugLevel},
		{"  INFO ", logrus.InfoLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"verbose", logrus.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	assert.Equal(t, logrus.DebugLevel, LevelFromEnv(""))
	assert.Equal(t, logrus.ErrorLevel, LevelFromEnv("error"))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(logrus.InfoLevel, &buf)

	logger.Debug("hidden")
	logger.WithField("step", "clone").Info("Step started")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Step started")
	assert.Contains(t, out, "step=clone")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Error("dropped") })
}
