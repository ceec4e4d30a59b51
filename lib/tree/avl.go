package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ OrderedTree[int] = (*AVLTree[int])(nil)

// AVLTree keeps |h(right) - h(left)| <= 1 at every node by walking up
// from the modified position after each insert or remove.
type AVLTree[T infra.OrderedKey] struct {
	core *BinaryTree[T]
}

func NewAVLTree[T infra.OrderedKey](opts ...TreeOption) *AVLTree[T] {
	return &AVLTree[T]{
		core: newBinaryTree[T](AVLKind, opts...),
	}
}

func (t *AVLTree[T]) Kind() TreeKind          { return t.core.kind }
func (t *AVLTree[T]) Len() int64              { return t.core.Len() }
func (t *AVLTree[T]) Height() int             { return t.core.Height() }
func (t *AVLTree[T]) Root() *Node[T]          { return t.core.Root() }
func (t *AVLTree[T]) Search(value T) *Node[T] { return t.core.Search(value) }
func (t *AVLTree[T]) Leftmost() *Node[T]      { return t.core.Leftmost() }
func (t *AVLTree[T]) Rightmost() *Node[T]     { return t.core.Rightmost() }
func (t *AVLTree[T]) Values() []T             { return t.core.Values() }
func (t *AVLTree[T]) String() string          { return t.core.String() }
func (t *AVLTree[T]) Release()                { t.core.Release() }

func (t *AVLTree[T]) Foreach(action func(idx int64, node *Node[T]) bool) {
	t.core.Foreach(action)
}

func (t *AVLTree[T]) Insert(value T) (*Node[T], error) {
	node, err := t.core.insert(value)
	if err != nil {
		return nil, err
	}
	t.rebalance(node)
	t.core.checkInvariants(func() error {
		return ValidateAVLTree[T](t)
	})
	return node, nil
}

func (t *AVLTree[T]) Remove(value T) error {
	touched, err := t.core.remove(value)
	if err != nil {
		return err
	}
	t.rebalance(touched)
	t.core.checkInvariants(func() error {
		return ValidateAVLTree[T](t)
	})
	return nil
}

func (t *AVLTree[T]) rebalance(from *Node[T]) {
	for aux := from; aux != nil; aux = aux.parent {
		aux.updateHeight()
		if bf := aux.BalancingFactor(); bf > 1 || bf < -1 {
			// aux is demoted, the loop continues at its new parent.
			t.resolve(aux)
		}
	}
}

func (t *AVLTree[T]) resolve(node *Node[T]) {
	switch bf := node.BalancingFactor(); bf {
	case 2:
		if node.right.BalancingFactor() < 0 {
			// RL
			node.right.rotateRight(t.core)
		}
		// RR
		node.rotateLeft(t.core)
	case -2:
		if node.left.BalancingFactor() > 0 {
			// LR
			node.left.rotateLeft(t.core)
		}
		// LL
		node.rotateRight(t.core)
	default:
		panic("[xtree] avl balancing factor out of range" /* debug assertion */)
	}
}
