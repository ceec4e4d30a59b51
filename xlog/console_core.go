package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	ws zapcore.WriteSyncer,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) zapcore.Core {
	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   "fn",
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	return zapcore.NewCore(getEncoderByType(encoder)(config), ws, lvlEnabler)
}

// newComponentXLogger derives a named child logger sharing the parent core,
// so that the parent level changes are applied to the child as well.
func newComponentXLogger(parent XLogger, component string) *xLogger {
	if parent == nil {
		panic("[XLogger] parent logger is nil")
	}
	l := &xLogger{}
	if xl, ok := parent.(*xLogger); ok {
		l.dynamicLevelEnabler = xl.dynamicLevelEnabler
		l.ctxFields = xl.ctxFields
		l.encoder = xl.encoder
	} else {
		l.dynamicLevelEnabler = zap.NewAtomicLevel()
	}
	l.logger.Store(parent.zap().
		Named(component).
		WithOptions(zap.WithCaller(false)),
	)
	return l
}
