package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

// stdio separates the rendered trees from the logs and metrics.
type stdio struct {
	out io.Writer
	err zapcore.WriteSyncer
}

type metrics struct {
	exporter observability.MetricsExporter
}

func newLogger(cfg *config, std *stdio) (xlog.XLogger, error) {
	var enc xlog.LogEncoderType
	switch strings.ToLower(cfg.logFormat) {
	case "json":
		enc = xlog.JSON
	case "text", "":
		enc = xlog.PlainText
	default:
		return nil, infra.NewErrorStack("unknown log format " + cfg.logFormat)
	}
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerWriteSyncer(std.err),
	}
	if len(cfg.logLevel) > 0 {
		opts = append(opts, xlog.WithXLoggerLevel(xlog.LogLevel(strings.ToUpper(cfg.logLevel))))
	}
	return xlog.NewXLogger(opts...), nil
}

func setMaxProcs(lc fx.Lifecycle, logger xlog.XLogger) error {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	}))
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(undo))
	return nil
}

func newMetrics(lc fx.Lifecycle, cfg *config, std *stdio, logger xlog.XLogger) (*metrics, error) {
	exp := cfg.exporter
	shutdown, err := observability.SetupMetricsExporter(exp, observability.WithExportWriter(std.err))
	if err != nil {
		return nil, err
	}
	statsCtx, cancel := context.WithCancel(context.Background())
	observability.InitAppStats(statsCtx, "xtree", nil)

	var srv *http.Server
	if exp == observability.PrometheusMetricsExporter {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.PrometheusHandler())
		srv = &http.Server{Addr: cfg.metricsAddr, Handler: mux}
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if srv == nil {
				return nil
			}
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("prometheus metrics served", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.ErrorStack(infra.WrapErrorStack(err), "prometheus server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			var err error
			if srv != nil {
				err = srv.Shutdown(ctx)
			}
			return multierr.Append(err, shutdown(ctx))
		},
	})
	return &metrics{exporter: exp}, nil
}

// newTreeStats depends on *metrics so the global meter provider is in
// place before the instruments are created.
func newTreeStats(_ *metrics) tree.TreeStats {
	return observability.NewTreeStats("cli")
}

func registerCommand(lc fx.Lifecycle, cmd *command) {
	lc.Append(fx.StartHook(cmd.execute))
}

func newApp(cfg *config, std *stdio, opts ...fx.Option) *fx.App {
	if cfg.timeout > 0 {
		opts = append(opts, fx.StartTimeout(cfg.timeout))
	}
	return fx.New(
		fx.Supply(cfg, std),
		fx.Provide(
			newLogger,
			newMetrics,
			newTreeStats,
			newCommand,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(setMaxProcs, registerCommand),
		fx.Options(opts...),
	)
}

// run starts the app, the command is executed by the start hooks. The
// prometheus exporter keeps serving until a signal arrives.
func run(cfg *config, std *stdio) error {
	app := newApp(cfg, std)
	if err := app.Err(); err != nil {
		return err
	}
	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	if cfg.exporter == observability.PrometheusMetricsExporter {
		<-app.Done()
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}
