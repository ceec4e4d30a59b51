package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

func isRoot[T infra.OrderedKey](node *Node[T]) bool {
	return node != nil && node.parent == nil
}

func blackDepthTo[T infra.OrderedKey](target, to *Node[T]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parent {
		if aux.isBlack() {
			depth++
		}
	}
	return depth
}

func violation(sentinel error, node fmt.Stringer, detail string) error {
	return infra.WrapErrorStackWithMessage(sentinel, fmt.Sprintf("node %s: %s", node, detail))
}

// Inorder traversal to validate the ordering and the links.
func OrderViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if !isRoot[T](root) {
		return violation(ErrParentLinkViolation, root, "root has a parent")
	}

	var (
		err  error
		prev *Node[T]
	)
	tree.Foreach(func(idx int64, node *Node[T]) bool {
		if prev != nil && infra.OrderedKeyCompare[T](prev.value, node.value) >= 0 {
			err = violation(ErrOrderViolation, node, fmt.Sprintf("not greater than %v", prev.value))
			return false
		}
		if (node.left != nil && node.left.parent != node) ||
			(node.right != nil && node.right.parent != node) {
			err = violation(ErrParentLinkViolation, node, "child points to another parent")
			return false
		}
		prev = node
		return true
	})
	return err
}

func SizeViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	if size := tree.Root().Size(); size != tree.Len() {
		return infra.WrapErrorStackWithMessage(ErrSizeViolation, fmt.Sprintf("counted %d nodes, tree reports %d", size, tree.Len()))
	}
	return nil
}

// Postorder recursion, compares the computed height with the cache.
func HeightCacheValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	var (
		err     error
		measure func(node *Node[T]) int
	)
	measure = func(node *Node[T]) int {
		if node == nil {
			return 0
		}
		h := 1 + max(measure(node.left), measure(node.right))
		if err == nil && h != node.height {
			err = violation(ErrHeightCacheViolation, node, fmt.Sprintf("cached %d, actual %d", node.height, h))
		}
		return h
	}
	measure(tree.Root())
	return err
}

func AVLViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	var err error
	tree.Foreach(func(idx int64, node *Node[T]) bool {
		if bf := node.BalancingFactor(); bf > 1 || bf < -1 {
			err = violation(ErrAVLViolation, node, fmt.Sprintf("balancing factor %d", bf))
			return false
		}
		return true
	})
	return err
}

func RootColorValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	if root := tree.Root(); root.isRed() {
		return violation(ErrRootColorViolation, root, "root is red")
	}
	return nil
}

func RedViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	var err error
	tree.Foreach(func(idx int64, node *Node[T]) bool {
		if node.isRed() && (node.left.isRed() || node.right.isRed()) {
			err = violation(ErrRedViolation, node, "red node with a red child")
			return false
		}
		return true
	})
	return err
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Every node missing a child ends a path to a nil leaf, they must
share the same black depth.
*/
func BlackViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	var (
		err        error
		blackDepth = -1
	)
	tree.Foreach(func(idx int64, node *Node[T]) bool {
		if node.ChildCount() == 2 {
			return true
		}
		depth := blackDepthTo[T](node, root)
		if blackDepth < 0 {
			blackDepth = depth
		} else if depth != blackDepth {
			err = violation(ErrBlackViolation, node, fmt.Sprintf("black depth %d, expected %d", depth, blackDepth))
			return false
		}
		return true
	})
	return err
}

func ValidateBinaryTree[T infra.OrderedKey](tree OrderedTree[T]) error {
	return multierr.Combine(
		OrderViolationValidate[T](tree),
		SizeViolationValidate[T](tree),
		HeightCacheValidate[T](tree),
	)
}

func ValidateAVLTree[T infra.OrderedKey](tree OrderedTree[T]) error {
	return multierr.Combine(
		ValidateBinaryTree[T](tree),
		AVLViolationValidate[T](tree),
	)
}

func ValidateRBTree[T infra.OrderedKey](tree OrderedTree[T]) error {
	return multierr.Combine(
		ValidateBinaryTree[T](tree),
		RootColorValidate[T](tree),
		RedViolationValidate[T](tree),
		BlackViolationValidate[T](tree),
	)
}
