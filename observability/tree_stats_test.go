package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/benz9527/xtree/lib/tree"
)

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Metrics {
	t.Helper()
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	metrics := make(map[string]metricdata.Metrics, 8)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			metrics[m.Name] = m
		}
	}
	return metrics
}

func sumOf(t *testing.T, m metricdata.Metrics, filter func(attribute.Set) bool) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, m.Name)
	total := int64(0)
	for _, dp := range sum.DataPoints {
		if filter == nil || filter(dp.Attributes) {
			total += dp.Value
		}
	}
	return total
}

func attrIs(key, value string) func(attribute.Set) bool {
	return func(set attribute.Set) bool {
		v, ok := set.Value(attribute.Key(key))
		return ok && v.AsString() == value
	}
}

func TestTreeStatsRecordsTreeMutations(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()
	stats := NewTreeStats("unit", WithMeterProvider(mp))

	avl := tree.NewAVLTree[int](tree.WithTreeStats(stats))
	for _, v := range []int{1, 2, 3, 3} {
		_, _ = avl.Insert(v)
	}
	require.NoError(t, avl.Remove(1))
	require.Error(t, avl.Remove(10))

	rb := tree.NewRBTree[int](tree.WithTreeStats(stats))
	for _, v := range []int{52, 47, 3, 35} {
		_, err := rb.Insert(v)
		require.NoError(t, err)
	}

	bst := tree.NewBinaryTree[int](tree.WithTreeStats(stats))
	for _, v := range []int{1, 2, 3, 4} {
		_, err := bst.Insert(v)
		require.NoError(t, err)
	}
	tree.DSW[int](bst)

	metrics := collect(t, reader)
	inserts := metrics["xtree.insert.count"]
	require.Equal(t, int64(12), sumOf(t, inserts, nil))
	require.Equal(t, int64(1), sumOf(t, inserts, attrIs(treeOutcomeKey, "duplicate")))
	require.Equal(t, int64(4), sumOf(t, inserts, attrIs(treeKindKey, "rbtree")))

	removes := metrics["xtree.remove.count"]
	require.Equal(t, int64(1), sumOf(t, removes, attrIs(treeOutcomeKey, "removed")))
	require.Equal(t, int64(1), sumOf(t, removes, attrIs(treeOutcomeKey, "missing")))

	rotations := metrics["xtree.rotation.count"]
	require.Equal(t, int64(1), sumOf(t, rotations, func(set attribute.Set) bool {
		return attrIs(treeKindKey, "avl")(set) && attrIs(treeDirectionKey, "left")(set)
	}))
	require.Equal(t, int64(1), sumOf(t, rotations, attrIs(treeKindKey, "rbtree")))
	// Backbone is already right leaning, two compress rotations.
	require.Equal(t, int64(2), sumOf(t, rotations, attrIs(treeKindKey, "bst")))

	require.Equal(t, int64(2), sumOf(t, metrics["xtree.recolor.count"], nil))
	require.Equal(t, int64(1), sumOf(t, metrics["xtree.rebuild.count"], nil))
	require.Equal(t, int64(10), sumOf(t, metrics["xtree.node.count"], nil))

	passes, ok := metrics["xtree.rebuild.passes"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, passes.DataPoints, 1)
	require.Equal(t, uint64(1), passes.DataPoints[0].Count)
	require.Equal(t, int64(2), passes.DataPoints[0].Sum)
}

func TestTreeStatsNodeCountAfterReleaseAndBulkLoad(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()
	stats := NewTreeStats("release", WithMeterProvider(mp))

	avl := tree.NewAVLTree[int](tree.WithTreeStats(stats))
	for v := 1; v <= 5; v++ {
		_, err := avl.Insert(v)
		require.NoError(t, err)
	}
	require.Equal(t, int64(5), sumOf(t, collect(t, reader)["xtree.node.count"], nil))
	avl.Release()
	require.Equal(t, int64(0), sumOf(t, collect(t, reader)["xtree.node.count"], nil))

	bst := tree.NewBinaryTreeFromValues[int]([]int{3, 1, 2}, tree.WithTreeStats(stats))
	require.Equal(t, int64(3), sumOf(t, collect(t, reader)["xtree.node.count"], nil))
	for _, v := range []int{1, 2, 3} {
		require.NoError(t, bst.Remove(v))
	}
	require.Equal(t, int64(0), sumOf(t, collect(t, reader)["xtree.node.count"], nil))

	rb := tree.NewRBTree[int](tree.WithTreeStats(stats))
	_, err := rb.Insert(1)
	require.NoError(t, err)
	require.Error(t, rb.Remove(1))
	rb.Release()
	metrics := collect(t, reader)
	require.Equal(t, int64(0), sumOf(t, metrics["xtree.node.count"], nil))
	require.Equal(t, int64(1), sumOf(t, metrics["xtree.remove.count"], func(set attribute.Set) bool {
		return attrIs(treeKindKey, "rbtree")(set) && attrIs(treeOutcomeKey, "missing")(set)
	}))
}

func TestTreeStatsNilReceiver(t *testing.T) {
	var stats *treeStats
	require.NotPanics(t, func() {
		stats.RecordInsert(tree.BSTKind, true)
		stats.RecordRemove(tree.BSTKind, true)
		stats.RecordRotation(tree.BSTKind, tree.Left)
		stats.RecordRecolor(tree.RBTreeKind)
		stats.RecordRebuild(tree.BSTKind, 1)
		stats.RecordBulkLoad(tree.BSTKind, 3)
		stats.RecordRelease(tree.BSTKind, 3)
	})
}
