package tree

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

// Node owns its children. The parent is a back-reference used by the
// upward walks of the balancers only.
type Node[T infra.OrderedKey] struct {
	value  T
	left   *Node[T]
	right  *Node[T]
	parent *Node[T]
	height int
	color  RBColor
}

func newNode[T infra.OrderedKey](value T) *Node[T] {
	return &Node[T]{
		value:  value,
		height: 1,
	}
}

func (node *Node[T]) Value() T {
	return node.value
}

func (node *Node[T]) setValue(value T) {
	node.value = value
}

func (node *Node[T]) Left() *Node[T] {
	return node.left
}

func (node *Node[T]) Right() *Node[T] {
	return node.right
}

func (node *Node[T]) Parent() *Node[T] {
	return node.parent
}

func (node *Node[T]) Color() RBColor {
	if node == nil {
		return Black
	}
	return node.color
}

func (node *Node[T]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *Node[T]) isBlack() bool {
	return !node.isRed()
}

func (node *Node[T]) setLeft(child *Node[T]) {
	node.left = child
	if child != nil {
		child.parent = node
	}
}

func (node *Node[T]) setRight(child *Node[T]) {
	node.right = child
	if child != nil {
		child.parent = node
	}
}

func (node *Node[T]) makeRoot() {
	node.parent = nil
}

// Height returns the cached height, 0 for a nil node and 1 for a leaf.
func (node *Node[T]) Height() int {
	if node == nil {
		return 0
	}
	return node.height
}

// updateHeight expects the children caches to be fresh.
func (node *Node[T]) updateHeight() {
	node.height = 1 + max(node.left.Height(), node.right.Height())
}

// BalancingFactor is h(right) - h(left).
func (node *Node[T]) BalancingFactor() int {
	return node.right.Height() - node.left.Height()
}

func (node *Node[T]) ChildCount() int {
	cnt := 0
	if node.left != nil {
		cnt++
	}
	if node.right != nil {
		cnt++
	}
	return cnt
}

func (node *Node[T]) Size() int64 {
	if node == nil {
		return 0
	}
	return 1 + node.left.Size() + node.right.Size()
}

// FindLeftmost descends the left chain starting at the left child.
func (node *Node[T]) FindLeftmost() *Node[T] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left.minimum()
}

// FindRightmost descends the right chain starting at the right child.
func (node *Node[T]) FindRightmost() *Node[T] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right.maximum()
}

func (node *Node[T]) minimum() *Node[T] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *Node[T]) maximum() *Node[T] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

func (node *Node[T]) sibling() *Node[T] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *Node[T]) Direction() RBDirection {
	if node.parent == nil {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

// replaceWith retargets the link pointing to node, either the parent's
// child link or the tree root.
func (node *Node[T]) replaceWith(tree *BinaryTree[T], other *Node[T]) {
	switch node.Direction() {
	case Root:
		if tree == nil || tree.root != node {
			panic("[xtree] replacing a detached node" /* debug assertion */)
		}
		tree.root = other
		if other != nil {
			other.makeRoot()
		}
	case Left:
		node.parent.setLeft(other)
	case Right:
		node.parent.setRight(other)
	}
}

// RotateLeft promotes the right child into the position of node and
// refreshes the cached heights up to the root.
//
//	  |                  |
//	 node                y
//	 /  \      =>       / \
//	a    y           node  c
//	    / \          /  \
//	   b   c        a    b
func (node *Node[T]) RotateLeft(tree *BinaryTree[T]) bool {
	if !node.rotateLeft(tree) {
		return false
	}
	tree.refreshHeights(node.parent.parent)
	return true
}

// RotateRight promotes the left child into the position of node and
// refreshes the cached heights up to the root.
//
//	    |              |
//	   node            y
//	   /  \    =>     / \
//	  y    c         a  node
//	 / \                /  \
//	a   b              b    c
func (node *Node[T]) RotateRight(tree *BinaryTree[T]) bool {
	if !node.rotateRight(tree) {
		return false
	}
	tree.refreshHeights(node.parent.parent)
	return true
}

// rotateLeft only refreshes node and the promoted child. Their ancestors
// are left to the caller.
func (node *Node[T]) rotateLeft(tree *BinaryTree[T]) bool {
	if tree == nil {
		panic("[xtree] rotate without tree" /* debug assertion */)
	}
	if node == nil || node.right == nil {
		if node != nil {
			tree.cfg.logger.Debug("[xtree] rotate left without right child", kindField(tree.kind), valueField(node.value))
		}
		return false
	}
	y := node.right
	node.replaceWith(tree, y)
	node.setRight(y.left)
	y.setLeft(node)
	node.updateHeight()
	y.updateHeight()
	tree.cfg.stats.RecordRotation(tree.kind, Left)
	return true
}

func (node *Node[T]) rotateRight(tree *BinaryTree[T]) bool {
	if tree == nil {
		panic("[xtree] rotate without tree" /* debug assertion */)
	}
	if node == nil || node.left == nil {
		if node != nil {
			tree.cfg.logger.Debug("[xtree] rotate right without left child", kindField(tree.kind), valueField(node.value))
		}
		return false
	}
	y := node.left
	node.replaceWith(tree, y)
	node.setLeft(y.right)
	y.setRight(node)
	node.updateHeight()
	y.updateHeight()
	tree.cfg.stats.RecordRotation(tree.kind, Right)
	return true
}

func (node *Node[T]) String() string {
	if node == nil {
		return "<nil>"
	}
	return fmt.Sprint(node.value)
}
