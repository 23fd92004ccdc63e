package internal

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger writing to w. Debug lines (the key
// square and per-digraph trace) are emitted only when verbose is set.
func NewLogger(w io.Writer, verbose bool) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	if ColorEnabled() {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// TraceLogger adapts l to the digraph observer.
func TraceLogger(l *zap.Logger) TraceFunc {
	return func(s Step) {
		l.Debug("digraph",
			zap.Int("index", s.Index),
			zap.String("in", s.In),
			zap.String("out", s.Out),
			zap.Stringer("rule", s.Rule),
		)
	}
}

// LogError records err at a level matching its class: defects at error,
// user mistakes at warn.
func LogError(l *zap.Logger, msg string, err error) {
	if IsDefect(err) {
		l.Error(msg, zap.Error(err), zap.Bool("defect", true))
		return
	}
	l.Warn(msg, zap.Error(err))
}
