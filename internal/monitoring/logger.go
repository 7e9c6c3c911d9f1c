package monitoring

import "go.uber.org/zap"

// Logf is the package-level diagnostic logger. It defaults to a zap
// production logger on stderr but may be replaced by SetLogger or
// SetZapLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = defaultLogf()

func defaultLogf() func(format string, v ...interface{}) {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar().Infof
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetZapLogger routes Logf through l at info level. Passing nil mutes Logf.
func SetZapLogger(l *zap.Logger) {
	if l == nil {
		SetLogger(nil)
		return
	}
	Logf = l.Sugar().Infof
}
