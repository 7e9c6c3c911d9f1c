package clustering

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	opsLogger   *zap.SugaredLogger
	diagLogger  *zap.SugaredLogger
	traceLogger *zap.SugaredLogger
)

// SetLogWriters configures the three logging streams for the clustering
// package. Pass nil for any writer to disable that stream. Configure the
// streams before engines start running; they are read without locking.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = newLogger("ops", ops)
	diagLogger = newLogger("diag", diag)
	traceLogger = newLogger("trace", trace)
}

func newLogger(stream string, w io.Writer) *zap.SugaredLogger {
	if w == nil {
		return nil
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Named("clustering").With(zap.String("stream", stream)).Sugar()
}

// opsf logs to the ops stream (rejected hits, failed events).
func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Warnf(format, args...)
	}
}

// diagf logs to the diag stream (per-event summaries, tuning context).
func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Infof(format, args...)
	}
}

// tracef logs to the trace stream (per-iteration merge telemetry).
func tracef(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Debugf(format, args...)
	}
}
