package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestValidatorsOnEmptyTree(t *testing.T) {
	require.NoError(t, ValidateBinaryTree[int](NewBinaryTree[int]()))
	require.NoError(t, ValidateAVLTree[int](NewAVLTree[int]()))
	require.NoError(t, ValidateRBTree[int](NewRBTree[int]()))
}

func TestOrderViolationValidate(t *testing.T) {
	tree := NewBinaryTreeFromValues[int]([]int{1, 2, 3})
	tree.Search(1).setValue(5)
	require.ErrorIs(t, OrderViolationValidate[int](tree), ErrOrderViolation)

	tree = NewBinaryTreeFromValues[int]([]int{1, 2, 3})
	tree.Search(3).parent = tree.Search(1)
	require.ErrorIs(t, OrderViolationValidate[int](tree), ErrParentLinkViolation)

	tree = NewBinaryTreeFromValues[int]([]int{1, 2, 3})
	tree.Root().parent = tree.Search(1)
	require.ErrorIs(t, OrderViolationValidate[int](tree), ErrParentLinkViolation)
}

func TestSizeAndHeightCacheValidate(t *testing.T) {
	tree := NewBinaryTreeFromValues[int]([]int{1, 2, 3})
	tree.count = 4
	require.ErrorIs(t, SizeViolationValidate[int](tree), ErrSizeViolation)

	tree = NewBinaryTreeFromValues[int]([]int{1, 2, 3})
	tree.Root().height = 3
	err := HeightCacheValidate[int](tree)
	require.ErrorIs(t, err, ErrHeightCacheViolation)
	require.Contains(t, err.Error(), "cached 3, actual 2")
}

func TestAVLViolationValidate(t *testing.T) {
	tree := NewBinaryTree[int]()
	insertAll[int](t, tree, 1, 2, 3)
	require.NoError(t, ValidateBinaryTree[int](tree))
	err := ValidateAVLTree[int](tree)
	require.ErrorIs(t, err, ErrAVLViolation)
	require.Len(t, multierr.Errors(err), 1)
}

func TestRBViolationValidate(t *testing.T) {
	tree := NewRBTree[int]()
	insertAll[int](t, tree, 2, 1, 3)
	require.NoError(t, ValidateRBTree[int](tree))

	tree.Root().color = Red
	err := ValidateRBTree[int](tree)
	require.ErrorIs(t, err, ErrRootColorViolation)
	require.ErrorIs(t, err, ErrRedViolation)
	require.Len(t, multierr.Errors(err), 2)

	tree.Root().color = Black
	tree.Search(1).color = Black
	require.ErrorIs(t, BlackViolationValidate[int](tree), ErrBlackViolation)
	require.NoError(t, RedViolationValidate[int](tree))
}
