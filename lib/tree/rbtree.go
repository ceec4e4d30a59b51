package tree

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

var _ OrderedTree[int] = (*RBTree[int])(nil)

// RBTree supports insert only.
//
// Properties:
//  1. Every node is either red or black.
//  2. The root is black.
//  3. Every nil leaf is black.
//  4. A red node has no red children.
//  5. Every path from a node to its nil leaves has the same number of
//     black nodes.
type RBTree[T infra.OrderedKey] struct {
	core *BinaryTree[T]
}

func NewRBTree[T infra.OrderedKey](opts ...TreeOption) *RBTree[T] {
	return &RBTree[T]{
		core: newBinaryTree[T](RBTreeKind, opts...),
	}
}

func (t *RBTree[T]) Kind() TreeKind          { return t.core.kind }
func (t *RBTree[T]) Len() int64              { return t.core.Len() }
func (t *RBTree[T]) Height() int             { return t.core.Height() }
func (t *RBTree[T]) Root() *Node[T]          { return t.core.Root() }
func (t *RBTree[T]) Search(value T) *Node[T] { return t.core.Search(value) }
func (t *RBTree[T]) Leftmost() *Node[T]      { return t.core.Leftmost() }
func (t *RBTree[T]) Rightmost() *Node[T]     { return t.core.Rightmost() }
func (t *RBTree[T]) Values() []T             { return t.core.Values() }
func (t *RBTree[T]) Release()                { t.core.Release() }

func (t *RBTree[T]) Foreach(action func(idx int64, node *Node[T]) bool) {
	t.core.Foreach(action)
}

// String suffixes every value with (R) or (B).
func (t *RBTree[T]) String() string {
	return render[T](t.core.root, func(node *Node[T]) string {
		if node.isRed() {
			return "(R)"
		}
		return "(B)"
	})
}

func (t *RBTree[T]) Insert(value T) (*Node[T], error) {
	node, err := t.core.insert(value)
	if err != nil {
		return nil, err
	}
	node.color = Red
	t.insertRebalance(node)
	t.core.refreshHeights(node)
	t.core.checkInvariants(func() error {
		return ValidateRBTree[T](t)
	})
	return node, nil
}

// insertRebalance
// x is red. The loop stops as soon as the parent of x is black.
func (t *RBTree[T]) insertRebalance(x *Node[T]) {
	for x.parent.isRed() {
		p := x.parent
		g := p.parent
		if g == nil {
			break
		}
		if u := p.sibling(); u.isRed() {
			// Case 1: uncle red, push the blackness down from g.
			p.color, u.color, g.color = Black, Black, Red
			t.core.cfg.stats.RecordRecolor(t.core.kind)
			x = g
			continue
		}
		if dir := x.Direction(); dir != p.Direction() {
			// Case 2: triangle, turn it into a line at p.
			if dir == Right {
				p.rotateLeft(t.core)
			} else {
				p.rotateRight(t.core)
			}
			x = p
			continue
		}
		// Case 3: line, p takes the place of g.
		if p.Direction() == Left {
			g.rotateRight(t.core)
		} else {
			g.rotateLeft(t.core)
		}
		p.color, g.color = g.color, p.color
		t.core.cfg.stats.RecordRecolor(t.core.kind)
	}
	t.core.root.color = Black
}

// Remove is not supported, the tree is left untouched.
func (t *RBTree[T]) Remove(value T) error {
	t.core.cfg.logger.Debug("[xtree] rbtree remove is not supported", kindField(t.core.kind), valueField(value))
	t.core.cfg.stats.RecordRemove(t.core.kind, false)
	return infra.WrapErrorStackWithMessage(ErrRemoveUnsupported, fmt.Sprintf("remove %v", value))
}
