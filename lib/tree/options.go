package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/xlog"
)

type nopTreeStats struct{}

func (nopTreeStats) RecordInsert(TreeKind, bool)          {}
func (nopTreeStats) RecordRemove(TreeKind, bool)          {}
func (nopTreeStats) RecordRotation(TreeKind, RBDirection) {}
func (nopTreeStats) RecordRecolor(TreeKind)               {}
func (nopTreeStats) RecordRebuild(TreeKind, int)          {}
func (nopTreeStats) RecordBulkLoad(TreeKind, int64)       {}
func (nopTreeStats) RecordRelease(TreeKind, int64)        {}

type treeConfig struct {
	logger          xlog.XLogger
	stats           TreeStats
	invariantChecks bool
}

type TreeOption func(*treeConfig)

func newTreeConfig(opts ...TreeOption) *treeConfig {
	cfg := &treeConfig{}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = xlog.NewNopXLogger()
	}
	if cfg.stats == nil {
		cfg.stats = nopTreeStats{}
	}
	return cfg
}

func WithTreeLogger(logger xlog.XLogger) TreeOption {
	return func(cfg *treeConfig) {
		cfg.logger = logger
	}
}

func WithTreeStats(stats TreeStats) TreeOption {
	return func(cfg *treeConfig) {
		cfg.stats = stats
	}
}

// WithTreeInvariantChecks validates the whole tree after every mutation,
// O(n) each time. A violation is logged and then panics.
func WithTreeInvariantChecks() TreeOption {
	return func(cfg *treeConfig) {
		cfg.invariantChecks = true
	}
}

func kindField(kind TreeKind) zap.Field {
	return zap.String("tree", string(kind))
}

func valueField[T infra.OrderedKey](value T) zap.Field {
	return zap.Any("value", value)
}
