package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const alertFieldKey = "send_alert"

// AlertFunc delivers an alert text to the operators' chat.
type AlertFunc func(text string)

// AlertField marks an entry for forwarding by an AlertCore.
func AlertField() zap.Field {
	return zap.Bool(alertFieldKey, true)
}

// AlertCore writes through to core and additionally forwards entries at or
// above minLevel that carry AlertField.
type AlertCore struct {
	core     zapcore.Core
	minLevel zapcore.Level
	send     AlertFunc
}

func NewAlertCore(core zapcore.Core, minLevel zapcore.Level, send AlertFunc) *AlertCore {
	return &AlertCore{core: core, minLevel: minLevel, send: send}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		core:     a.core.With(fields),
		minLevel: a.minLevel,
		send:     a.send,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	err := a.core.Write(entry, fields)
	if entry.Level >= a.minLevel && hasAlertField(fields) {
		a.send(formatAlert(entry, fields))
	}
	return err
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

// WithAlerts returns a logger whose alert-marked entries are also passed to
// send.
func (l *Logger) WithAlerts(minLevel zapcore.Level, send AlertFunc) *Logger {
	return &Logger{l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return NewAlertCore(core, minLevel, send)
	}))}
}

func hasAlertField(fields []zapcore.Field) bool {
	for _, f := range fields {
		if f.Key == alertFieldKey && f.Type == zapcore.BoolType && f.Integer == 1 {
			return true
		}
	}
	return false
}

func formatAlert(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		if f.Key != alertFieldKey {
			f.AddTo(enc)
		}
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fieldStr strings.Builder
	for _, k := range keys {
		fieldStr.WriteString(fmt.Sprintf("• %s: %v\n", k, enc.Fields[k]))
	}

	return fmt.Sprintf(
		"🚨 %s Alert\n\nMessage: %s\n\nFields:\n%s\nTime: %s",
		entry.Level.CapitalString(),
		entry.Message,
		fieldStr.String(),
		entry.Time.Format("2006-01-02 15:04:05"),
	)
}
