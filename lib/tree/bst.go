package tree

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
)

var _ OrderedTree[int] = (*BinaryTree[int])(nil)

// BinaryTree is the unbalanced binary search tree. The balancers reuse
// its primitives and only add the rebalancing walks.
type BinaryTree[T infra.OrderedKey] struct {
	root  *Node[T]
	count int64
	kind  TreeKind
	cfg   *treeConfig
}

func newBinaryTree[T infra.OrderedKey](kind TreeKind, opts ...TreeOption) *BinaryTree[T] {
	return &BinaryTree[T]{
		kind: kind,
		cfg:  newTreeConfig(opts...),
	}
}

func NewBinaryTree[T infra.OrderedKey](opts ...TreeOption) *BinaryTree[T] {
	return newBinaryTree[T](BSTKind, opts...)
}

// NewBinaryTreeFromValues bulk loads the sorted and de-duplicated values
// into a height balanced tree.
func NewBinaryTreeFromValues[T infra.OrderedKey](values []T, opts ...TreeOption) *BinaryTree[T] {
	tree := NewBinaryTree[T](opts...)
	sorted := lo.Uniq[T](values)
	slices.Sort(sorted)
	tree.root = buildFromSorted[T](sorted)
	if tree.root != nil {
		tree.root.makeRoot()
	}
	tree.count = int64(len(sorted))
	if tree.count > 0 {
		tree.cfg.stats.RecordBulkLoad(tree.kind, tree.count)
	}
	tree.checkInvariants(func() error {
		return ValidateBinaryTree[T](tree)
	})
	return tree
}

func buildFromSorted[T infra.OrderedKey](values []T) *Node[T] {
	n := len(values)
	if n == 0 {
		return nil
	}
	i := n/2 + n%2
	node := newNode[T](values[i-1])
	node.setLeft(buildFromSorted[T](values[:i-1]))
	node.setRight(buildFromSorted[T](values[i:]))
	node.updateHeight()
	return node
}

func (tree *BinaryTree[T]) Kind() TreeKind {
	return tree.kind
}

func (tree *BinaryTree[T]) Len() int64 {
	return tree.count
}

func (tree *BinaryTree[T]) Height() int {
	return tree.root.Height()
}

func (tree *BinaryTree[T]) Root() *Node[T] {
	return tree.root
}

func (tree *BinaryTree[T]) Leftmost() *Node[T] {
	return tree.root.minimum()
}

func (tree *BinaryTree[T]) Rightmost() *Node[T] {
	return tree.root.maximum()
}

func (tree *BinaryTree[T]) Search(value T) *Node[T] {
	aux := tree.locate(value)
	if aux == nil || aux.value != value {
		return nil
	}
	return aux
}

// locate returns the node holding value or the node the value would be
// attached to.
func (tree *BinaryTree[T]) locate(value T) *Node[T] {
	aux := tree.root
	for aux != nil {
		res := infra.OrderedKeyCompare[T](value, aux.value)
		if res < 0 && aux.left != nil {
			aux = aux.left
		} else if res > 0 && aux.right != nil {
			aux = aux.right
		} else {
			break
		}
	}
	return aux
}

func (tree *BinaryTree[T]) Insert(value T) (*Node[T], error) {
	node, err := tree.insert(value)
	if err != nil {
		return nil, err
	}
	tree.checkInvariants(func() error {
		return ValidateBinaryTree[T](tree)
	})
	return node, nil
}

func (tree *BinaryTree[T]) insert(value T) (*Node[T], error) {
	z := newNode[T](value)
	if tree.root == nil {
		tree.root = z
	} else {
		y := tree.locate(value)
		res := infra.OrderedKeyCompare[T](value, y.value)
		if res < 0 {
			y.setLeft(z)
		} else if res > 0 {
			y.setRight(z)
		} else {
			tree.cfg.logger.Debug("[xtree] insert duplicate value", kindField(tree.kind), valueField(value))
			tree.cfg.stats.RecordInsert(tree.kind, false)
			return nil, infra.WrapErrorStackWithMessage(ErrValueExists, fmt.Sprintf("insert %v", value))
		}
		tree.refreshHeights(y)
	}
	tree.count++
	tree.cfg.stats.RecordInsert(tree.kind, true)
	return z, nil
}

func (tree *BinaryTree[T]) Remove(value T) error {
	if _, err := tree.remove(value); err != nil {
		return err
	}
	tree.checkInvariants(func() error {
		return ValidateBinaryTree[T](tree)
	})
	return nil
}

// remove returns the parent of the physically removed node, nil if the
// removed node was the root.
func (tree *BinaryTree[T]) remove(value T) (*Node[T], error) {
	if tree.root == nil {
		tree.cfg.logger.Debug("[xtree] remove from empty tree", kindField(tree.kind), valueField(value))
		tree.cfg.stats.RecordRemove(tree.kind, false)
		return nil, infra.WrapErrorStackWithMessage(ErrTreeEmpty, fmt.Sprintf("remove %v", value))
	}
	z := tree.Search(value)
	if z == nil {
		tree.cfg.logger.Debug("[xtree] remove absent value", kindField(tree.kind), valueField(value))
		tree.cfg.stats.RecordRemove(tree.kind, false)
		return nil, infra.WrapErrorStackWithMessage(ErrValueNotFound, fmt.Sprintf("remove %v", value))
	}
	touched := tree.removeNode(z)
	tree.count--
	tree.cfg.stats.RecordRemove(tree.kind, true)
	return touched, nil
}

func (tree *BinaryTree[T]) removeNode(z *Node[T]) *Node[T] {
	switch z.ChildCount() {
	case 0, 1:
		child := z.left
		if child == nil {
			child = z.right
		}
		p := z.parent
		z.replaceWith(tree, child)
		z.parent, z.left, z.right = nil, nil, nil
		tree.refreshHeights(p)
		return p
	default:
	}

	// Two children, the in-order predecessor has at most a left child.
	pred := z.left.maximum()
	predValue := pred.value
	touched := tree.removeNode(tree.Search(predValue))
	z.setValue(predValue)
	return touched
}

func (tree *BinaryTree[T]) refreshHeights(from *Node[T]) {
	for aux := from; aux != nil; aux = aux.parent {
		aux.updateHeight()
	}
}

// recomputeHeights rebuilds every height cache in post-order.
func (tree *BinaryTree[T]) recomputeHeights() {
	var (
		stack []*Node[T]
		last  *Node[T]
		aux   = tree.root
	)
	for aux != nil || len(stack) > 0 {
		if aux != nil {
			stack = append(stack, aux)
			aux = aux.left
			continue
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != last {
			aux = top.right
			continue
		}
		top.updateHeight()
		last = top
		stack = stack[:len(stack)-1]
	}
}

// MakeRightBackbone turns the tree into a right-leaning chain of
// ascending values.
func (tree *BinaryTree[T]) MakeRightBackbone() {
	tree.makeRightBackbone()
	tree.recomputeHeights()
	tree.checkInvariants(func() error {
		return ValidateBinaryTree[T](tree)
	})
}

func (tree *BinaryTree[T]) makeRightBackbone() {
	for aux := tree.root; aux != nil; {
		if promoted := aux.left; promoted != nil {
			aux.rotateRight(tree)
			aux = promoted
		} else {
			aux = aux.right
		}
	}
}

// Foreach walks the nodes in order until the action returns false.
func (tree *BinaryTree[T]) Foreach(action func(idx int64, node *Node[T]) bool) {
	var (
		stack = make([]*Node[T], 0, tree.root.Height())
		idx   int64
		aux   = tree.root
	)
	for aux != nil || len(stack) > 0 {
		for ; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
		aux = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !action(idx, aux) {
			return
		}
		idx++
		aux = aux.right
	}
}

func (tree *BinaryTree[T]) Values() []T {
	values := make([]T, 0, tree.count)
	tree.Foreach(func(idx int64, node *Node[T]) bool {
		values = append(values, node.value)
		return true
	})
	return values
}

func (tree *BinaryTree[T]) String() string {
	return render[T](tree.root, nil)
}

func (tree *BinaryTree[T]) Release() {
	var (
		stack = make([]*Node[T], 0, 32)
		aux   *Node[T]
	)
	if tree.root != nil {
		stack = append(stack, tree.root)
	}
	for len(stack) > 0 {
		aux = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.left, aux.right, aux.parent = nil, nil, nil
	}
	if tree.count > 0 {
		tree.cfg.stats.RecordRelease(tree.kind, tree.count)
	}
	tree.root = nil
	tree.count = 0
}

// checkInvariants is a no-op unless the tree was created with
// WithTreeInvariantChecks.
func (tree *BinaryTree[T]) checkInvariants(validate func() error) {
	if !tree.cfg.invariantChecks {
		return
	}
	if err := validate(); err != nil {
		tree.cfg.logger.ErrorStack(err, "[xtree] invariant violation", kindField(tree.kind))
		panic(err)
	}
}
