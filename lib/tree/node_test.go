package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeNilReceivers(t *testing.T) {
	var node *Node[int]
	require.Equal(t, 0, node.Height())
	require.Equal(t, int64(0), node.Size())
	require.Equal(t, Black, node.Color())
	require.Nil(t, node.FindLeftmost())
	require.Nil(t, node.FindRightmost())
	require.Equal(t, "<nil>", node.String())
}

func TestNodeQueries(t *testing.T) {
	tree := NewBinaryTree[int]()
	insertAll[int](t, tree, 50, 30, 70, 20, 40, 60, 80, 35)

	root := tree.Root()
	require.Equal(t, Root, root.Direction())
	require.Equal(t, 2, root.ChildCount())
	require.Equal(t, int64(8), root.Size())
	require.Equal(t, 4, root.Height())
	require.Equal(t, -1, root.BalancingFactor())
	require.Equal(t, 20, root.FindLeftmost().Value())
	require.Equal(t, 80, root.FindRightmost().Value())

	n30 := tree.Search(30)
	require.Equal(t, Left, n30.Direction())
	require.Equal(t, 20, n30.FindLeftmost().Value())
	require.Equal(t, 40, n30.FindRightmost().Value())
	require.Equal(t, int64(4), n30.Size())

	n40 := tree.Search(40)
	require.Equal(t, Right, n40.Direction())
	require.Equal(t, 1, n40.ChildCount())
	require.Equal(t, 35, n40.FindLeftmost().Value())
	require.Nil(t, n40.FindRightmost())
	require.Equal(t, 2, n40.Height())
	require.Equal(t, -1, n40.BalancingFactor())

	n80 := tree.Search(80)
	require.Equal(t, 0, n80.ChildCount())
	require.Equal(t, 1, n80.Height())
	require.Nil(t, n80.FindLeftmost())
	require.Equal(t, n30, n40.Parent())
	require.Equal(t, "40", n40.String())
}

func TestNodeRotateRoundTrip(t *testing.T) {
	stats := newCountingStats()
	tree := NewBinaryTree[int](WithTreeStats(stats))
	insertAll[int](t, tree, 4, 2, 6, 1, 3, 5, 7)
	before := tree.Values()

	root := tree.Root()
	require.True(t, root.RotateRight(tree))
	requireChildren[int](t, tree.Root(), 2, ptr(1), ptr(4))
	requireChildren[int](t, tree.Search(4), 4, ptr(3), ptr(6))
	require.Nil(t, tree.Root().Parent())
	require.Equal(t, before, tree.Values())
	require.Equal(t, 4, tree.Height())
	require.NoError(t, ValidateBinaryTree[int](tree))

	require.True(t, tree.Root().RotateLeft(tree))
	requireChildren[int](t, tree.Root(), 4, ptr(2), ptr(6))
	requireChildren[int](t, tree.Search(2), 2, ptr(1), ptr(3))
	require.Equal(t, before, tree.Values())
	require.Equal(t, 3, tree.Height())
	require.NoError(t, ValidateBinaryTree[int](tree))

	// Rotation below the root retargets the parent link.
	require.True(t, tree.Search(6).RotateLeft(tree))
	requireChildren[int](t, tree.Root(), 4, ptr(2), ptr(7))
	requireChildren[int](t, tree.Search(7), 7, ptr(6), nil)
	requireChildren[int](t, tree.Search(6), 6, ptr(5), nil)
	require.Equal(t, 3, tree.Search(7).Height())
	require.Equal(t, 4, tree.Root().Height())
	require.Equal(t, 4, tree.Height())
	require.NoError(t, HeightCacheValidate[int](tree))
	require.NoError(t, ValidateBinaryTree[int](tree))

	require.Equal(t, 1, stats.rotations[Right])
	require.Equal(t, 2, stats.rotations[Left])
}

func TestNodeRotateWithoutChild(t *testing.T) {
	logger, buf := newBufferedLogger(t)
	stats := newCountingStats()
	tree := NewBinaryTree[int](WithTreeLogger(logger), WithTreeStats(stats))
	insertAll[int](t, tree, 2)

	require.False(t, tree.Root().RotateLeft(tree))
	require.False(t, tree.Root().RotateRight(tree))
	requireChildren[int](t, tree.Root(), 2, nil, nil)
	require.Empty(t, stats.rotations)
	require.Contains(t, buf.String(), "rotate left without right child")
	require.Contains(t, buf.String(), "rotate right without left child")

	require.Panics(t, func() {
		tree.Root().RotateLeft(nil)
	})
}
