package observability

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xtree/lib/tree"
)

const (
	TreeStatsName = "xtree/tree"

	treeKindKey      = "xtree.kind"
	treeOutcomeKey   = "xtree.outcome"
	treeDirectionKey = "xtree.direction"
)

var _ tree.TreeStats = (*treeStats)(nil)

type treeStats struct {
	liveNodes     atomic.Int64
	insertCount   metric.Int64Counter
	removeCount   metric.Int64Counter
	rotationCount metric.Int64Counter
	recolorCount  metric.Int64Counter
	rebuildCount  metric.Int64Counter
	rebuildPasses metric.Int64Histogram
	nodeCount     metric.Int64ObservableUpDownCounter
}

func outcomeSet(kind tree.TreeKind, ok bool, success, failure string) attribute.Set {
	outcome := failure
	if ok {
		outcome = success
	}
	return attribute.NewSet(
		attribute.String(treeKindKey, string(kind)),
		attribute.String(treeOutcomeKey, outcome),
	)
}

func (stats *treeStats) RecordInsert(kind tree.TreeKind, inserted bool) {
	if stats == nil {
		return
	}
	if inserted {
		stats.liveNodes.Add(1)
	}
	as := outcomeSet(kind, inserted, "inserted", "duplicate")
	stats.insertCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *treeStats) RecordRemove(kind tree.TreeKind, removed bool) {
	if stats == nil {
		return
	}
	if removed {
		stats.liveNodes.Add(-1)
	}
	as := outcomeSet(kind, removed, "removed", "missing")
	stats.removeCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *treeStats) RecordRotation(kind tree.TreeKind, dir tree.RBDirection) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String(treeKindKey, string(kind)),
		attribute.String(treeDirectionKey, strings.ToLower(dir.String())),
	)
	stats.rotationCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *treeStats) RecordRecolor(kind tree.TreeKind) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(attribute.String(treeKindKey, string(kind)))
	stats.recolorCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *treeStats) RecordRebuild(kind tree.TreeKind, passes int) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(attribute.String(treeKindKey, string(kind)))
	stats.rebuildCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
	stats.rebuildPasses.Record(context.Background(), int64(passes), metric.WithAttributeSet(as))
}

func (stats *treeStats) RecordBulkLoad(kind tree.TreeKind, nodes int64) {
	if stats == nil {
		return
	}
	stats.liveNodes.Add(nodes)
}

func (stats *treeStats) RecordRelease(kind tree.TreeKind, nodes int64) {
	if stats == nil {
		return
	}
	stats.liveNodes.Add(-nodes)
}

type treeStatsConfig struct {
	provider metric.MeterProvider
}

type TreeStatsOption func(*treeStatsConfig)

// WithMeterProvider replaces the global otel meter provider.
func WithMeterProvider(provider metric.MeterProvider) TreeStatsOption {
	return func(cfg *treeStatsConfig) {
		cfg.provider = provider
	}
}

// NewTreeStats records the tree mutations as otel instruments. One
// instance may be shared by many trees.
func NewTreeStats(name string, opts ...TreeStatsOption) tree.TreeStats {
	cfg := &treeStatsConfig{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetMeterProvider()
	}
	meterName := TreeStatsName
	if len(strings.TrimSpace(name)) > 0 {
		meterName = fmt.Sprintf("%s/%s", TreeStatsName, name)
	}
	meter := cfg.provider.Meter(meterName)
	stats := &treeStats{
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.insert.count",
			metric.WithDescription("The number of insert calls."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.remove.count",
			metric.WithDescription("The number of remove calls."),
		)),
		rotationCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.rotation.count",
			metric.WithDescription("The number of single rotations."),
		)),
		recolorCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.recolor.count",
			metric.WithDescription("The number of rbtree recoloring steps."),
		)),
		rebuildCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.rebuild.count",
			metric.WithDescription("The number of DSW rebuilds."),
		)),
		rebuildPasses: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xtree.rebuild.passes",
			metric.WithDescription("The compress passes of a DSW rebuild."),
		)),
	}
	stats.nodeCount = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"xtree.node.count",
		metric.WithDescription("The number of live nodes of all trees sharing the stats."),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(stats.liveNodes.Load())
			return nil
		}),
	))
	return stats
}
