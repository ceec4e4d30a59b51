package xlog

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
)

func TestFxXLoggerAllCases(t *testing.T) {
	testcases := []struct {
		name  string
		event fxevent.Event
		err   bool
	}{
		{"onStartExecuted_err", &fxevent.OnStartExecuted{FunctionName: "f1", CallerName: "c1", Err: errors.New("fx error 1")}, true},
		{"onStartExecuted_succ", &fxevent.OnStartExecuted{FunctionName: "f2", CallerName: "c2"}, false},
		{"onStopExecuted_err", &fxevent.OnStopExecuted{FunctionName: "f3", CallerName: "c3", Err: errors.New("fx error 2")}, true},
		{"onStopExecuted_succ", &fxevent.OnStopExecuted{FunctionName: "f4", CallerName: "c4"}, false},
		{"supplied_err", &fxevent.Supplied{TypeName: "t1", Err: errors.New("fx error 3")}, true},
		{"supplied_succ", &fxevent.Supplied{TypeName: "t2"}, false},
		{"provided_err", &fxevent.Provided{ConstructorName: "ctor1", Err: errors.New("fx error 4")}, true},
		{"provided_succ", &fxevent.Provided{ConstructorName: "ctor2", OutputTypeNames: []string{"t3"}}, false},
		{"invoking", &fxevent.Invoking{FunctionName: "f5"}, false},
		{"invoked_err", &fxevent.Invoked{FunctionName: "f6", Err: errors.New("fx error 5")}, true},
		{"stopping", &fxevent.Stopping{Signal: os.Interrupt}, false},
		{"stopped_err", &fxevent.Stopped{Err: errors.New("fx error 6")}, true},
		{"rollingBack", &fxevent.RollingBack{StartErr: errors.New("fx error 7")}, false},
		{"rolledBack_err", &fxevent.RolledBack{Err: errors.New("fx error 8")}, true},
		{"started_err", &fxevent.Started{Err: errors.New("fx error 9")}, true},
		{"started_succ", &fxevent.Started{}, false},
		{"loggerInitialized_err", &fxevent.LoggerInitialized{Err: errors.New("fx error 10")}, true},
		{"loggerInitialized_succ", &fxevent.LoggerInitialized{ConstructorName: "ctor3"}, false},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			parent, out := newTestXLogger(tt, LogLevelDebug)
			logger := NewFxXLogger(parent)
			logger.LogEvent(tc.event)
			lines := out.lines(tt)
			require.NotEmpty(tt, lines)
			require.Equal(tt, "Fx", lines[0]["component"])
			if tc.err {
				require.Equal(tt, "ERROR", lines[len(lines)-1]["lvl"])
				require.NotEmpty(tt, lines[len(lines)-1]["error"])
			}
		})
	}

	var nilLogger *FxXLogger
	nilLogger.LogEvent(&fxevent.Started{})
}
