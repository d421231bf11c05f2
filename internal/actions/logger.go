package actions

import "log/slog"

// Logger is the output surface actions report through.
// *output.Splog implements it.
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Tip(msg string, args ...interface{})
	Log(level slog.Level, msg string, attrs ...slog.Attr)
	Newline()
}
