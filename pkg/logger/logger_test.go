package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		wantErr  bool
	}{
		{name: "json", level: "info", encoding: "json"},
		{name: "console", level: "debug", encoding: "console"},
		{name: "bad level", level: "loud", encoding: "json", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	root := NewNop()
	child := root.With(StringField("request_id", "abc"))

	assert.Same(t, root, root.FromContext(context.Background()))
	assert.Same(t, child, root.FromContext(NewContext(context.Background(), child)))
}

func TestAlertCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var alerts []string
	log := (&Logger{zap.New(core)}).WithAlerts(zapcore.ErrorLevel, func(text string) {
		alerts = append(alerts, text)
	})

	log.Error("Failed to save user profile", StringField("user_id", "42"), ErrorField(errors.New("redis down")), AlertField())
	log.Error("Plain error")
	log.Warn("Flagged warning", AlertField())

	assert.Equal(t, 3, logs.Len())
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0], "🚨 ERROR Alert")
	assert.Contains(t, alerts[0], "Message: Failed to save user profile")
	assert.Contains(t, alerts[0], "• error: redis down\n• user_id: 42\n")
	assert.NotContains(t, alerts[0], alertFieldKey)
}
