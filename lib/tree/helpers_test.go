package tree

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/xlog"
)

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Sync() error { return nil }

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

var _ zapcore.WriteSyncer = (*syncBuffer)(nil)

func newBufferedLogger(t *testing.T) (xlog.XLogger, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerEncoder(xlog.JSON),
		xlog.WithXLoggerWriteSyncer(buf),
	)
	return logger, buf
}

type countingStats struct {
	inserts, duplicates int
	removes, misses     int
	rotations           map[RBDirection]int
	recolors            int
	rebuilds, passes    int
	loaded, released    int64
}

func newCountingStats() *countingStats {
	return &countingStats{rotations: make(map[RBDirection]int, 2)}
}

func (s *countingStats) RecordInsert(_ TreeKind, inserted bool) {
	if inserted {
		s.inserts++
	} else {
		s.duplicates++
	}
}

func (s *countingStats) RecordRemove(_ TreeKind, removed bool) {
	if removed {
		s.removes++
	} else {
		s.misses++
	}
}

func (s *countingStats) RecordRotation(_ TreeKind, dir RBDirection) { s.rotations[dir]++ }
func (s *countingStats) RecordRecolor(TreeKind)                     { s.recolors++ }

func (s *countingStats) RecordRebuild(_ TreeKind, passes int) {
	s.rebuilds++
	s.passes += passes
}

func (s *countingStats) RecordBulkLoad(_ TreeKind, nodes int64) { s.loaded += nodes }
func (s *countingStats) RecordRelease(_ TreeKind, nodes int64)  { s.released += nodes }

func insertAll[T int | uint64](t *testing.T, tree OrderedTree[T], values ...T) {
	t.Helper()
	for _, v := range values {
		node, err := tree.Insert(v)
		require.NoError(t, err)
		require.Equal(t, v, node.Value())
	}
}

func requireChildren[T int | uint64](t *testing.T, node *Node[T], value T, left, right *T) {
	t.Helper()
	require.NotNil(t, node)
	require.Equal(t, value, node.Value())
	if left == nil {
		require.Nil(t, node.Left())
	} else {
		require.NotNil(t, node.Left())
		require.Equal(t, *left, node.Left().Value())
		require.Same(t, node, node.Left().Parent())
	}
	if right == nil {
		require.Nil(t, node.Right())
	} else {
		require.NotNil(t, node.Right())
		require.Equal(t, *right, node.Right().Value())
		require.Same(t, node, node.Right().Parent())
	}
}

func ptr[T any](v T) *T {
	return &v
}
