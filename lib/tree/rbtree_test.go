package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type checkData struct {
	color RBColor
	value uint64
}

func requireInorder(t *testing.T, tree *RBTree[uint64], expected []checkData) {
	t.Helper()
	require.Equal(t, int64(len(expected)), tree.Len())
	tree.Foreach(func(idx int64, node *Node[uint64]) bool {
		require.Equal(t, expected[idx].color, node.Color())
		require.Equal(t, expected[idx].value, node.Value())
		return true
	})
	require.NoError(t, ValidateRBTree[uint64](tree))
}

func TestRBTreeRoot(t *testing.T) {
	tree := NewRBTree[int]()
	insertAll[int](t, tree, 10)
	require.Equal(t, 10, tree.Root().Value())
	require.Equal(t, Black, tree.Root().Color())

	insertAll[int](t, tree, 5)
	requireChildren[int](t, tree.Root(), 10, ptr(5), nil)
	require.Equal(t, Black, tree.Root().Color())
	require.Equal(t, Red, tree.Root().Left().Color())
	require.Equal(t, "Root: 10(B)\n    L── 5(R)", tree.String())
	require.Equal(t, RBTreeKind, tree.Kind())
}

func TestRBTreeInsertFixup(t *testing.T) {
	stats := newCountingStats()
	tree := NewRBTree[uint64](WithTreeStats(stats), WithTreeInvariantChecks())

	insertAll[uint64](t, tree, 52)
	requireInorder(t, tree, []checkData{{Black, 52}})

	insertAll[uint64](t, tree, 47)
	requireInorder(t, tree, []checkData{{Red, 47}, {Black, 52}})

	// Line, rotate at the grandparent.
	insertAll[uint64](t, tree, 3)
	requireInorder(t, tree, []checkData{{Red, 3}, {Black, 47}, {Red, 52}})
	require.Equal(t, uint64(47), tree.Root().Value())

	// Red uncle, recolor only.
	insertAll[uint64](t, tree, 35)
	requireInorder(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	// Triangle, then line.
	insertAll[uint64](t, tree, 24)
	requireInorder(t, tree, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})
	requireChildren[uint64](t, tree.Search(24), 24, ptr[uint64](3), ptr[uint64](35))
	require.Equal(t, 3, tree.Height())

	require.Equal(t, 2, stats.rotations[Right])
	require.Equal(t, 1, stats.rotations[Left])
	require.Equal(t, 3, stats.recolors)
}

func TestRBTreeAscendingInsert(t *testing.T) {
	stats := newCountingStats()
	tree := NewRBTree[uint64](WithTreeStats(stats))
	for i := uint64(1); i <= 10; i++ {
		insertAll[uint64](t, tree, i)
	}
	requireInorder(t, tree, []checkData{
		{Black, 1}, {Black, 2}, {Black, 3}, {Black, 4}, {Black, 5},
		{Black, 6}, {Black, 7}, {Red, 8}, {Black, 9}, {Red, 10},
	})
	require.Equal(t, uint64(4), tree.Root().Value())
	require.Equal(t, 5, tree.Height())
	require.Equal(t, 5, stats.rotations[Left])
	require.Equal(t, 0, stats.rotations[Right])

	expected := "" +
		"                R── 10(R)\n" +
		"            R── 9(B)\n" +
		"        R── 8(R)\n" +
		"            L── 7(B)\n" +
		"    R── 6(B)\n" +
		"        L── 5(B)\n" +
		"Root: 4(B)\n" +
		"        R── 3(B)\n" +
		"    L── 2(B)\n" +
		"        L── 1(B)"
	require.Equal(t, expected, tree.String())
}

func TestRBTreeNoop(t *testing.T) {
	logger, buf := newBufferedLogger(t)
	stats := newCountingStats()
	tree := NewRBTree[int](WithTreeLogger(logger), WithTreeStats(stats))
	require.Equal(t, "(empty tree)", tree.String())
	insertAll[int](t, tree, 2, 1, 3)

	node, err := tree.Insert(3)
	require.Nil(t, node)
	require.ErrorIs(t, err, ErrValueExists)

	require.ErrorIs(t, tree.Remove(3), ErrRemoveUnsupported)
	require.ErrorIs(t, tree.Remove(42), ErrRemoveUnsupported)
	require.Equal(t, 2, stats.misses)
	require.Equal(t, 0, stats.removes)
	require.Equal(t, []int{1, 2, 3}, tree.Values())
	require.Contains(t, buf.String(), `"tree":"rbtree"`)
	require.Contains(t, buf.String(), "rbtree remove is not supported")

	require.Equal(t, 1, tree.Leftmost().Value())
	require.Equal(t, 3, tree.Rightmost().Value())
	tree.Release()
	require.Nil(t, tree.Root())
}

func TestRBTreeRandomInsert(t *testing.T) {
	rand := randv2.New(randv2.NewPCG(7, 11))
	for round := 0; round < 20; round++ {
		tree := NewRBTree[uint64]()
		inserted := 0
		for i := 0; i < 500; i++ {
			if _, err := tree.Insert(rand.Uint64N(1 << 12)); err == nil {
				inserted++
			} else {
				require.ErrorIs(t, err, ErrValueExists)
			}
		}
		require.Equal(t, int64(inserted), tree.Len())
		require.NoError(t, ValidateRBTree[uint64](tree))
		require.NoError(t, RedViolationValidate[uint64](tree))
		require.NoError(t, BlackViolationValidate[uint64](tree))
	}
}
