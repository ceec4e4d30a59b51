package tree

import (
	"math/bits"

	"github.com/benz9527/xtree/lib/infra"
)

// DSW rebuilds the tree in place (Day-Stout-Warren) into a route
// balanced tree, every level full except the last one. The in-order
// sequence is unchanged.
func DSW[T infra.OrderedKey](tree *BinaryTree[T]) {
	if tree == nil || tree.root == nil {
		return
	}
	tree.makeRightBackbone()
	n := tree.root.Size()
	// m = 2^floor(log2(n+1)) - 1, the nodes of the largest perfect tree.
	m := int64(1)<<(bits.Len64(uint64(n+1))-1) - 1
	passes := 1
	tree.compress(n - m)
	for m > 1 {
		m /= 2
		tree.compress(m)
		passes++
	}
	tree.recomputeHeights()
	tree.cfg.stats.RecordRebuild(tree.kind, passes)
	tree.cfg.logger.Debug("[xtree] dsw rebuild done", kindField(tree.kind))
	tree.checkInvariants(func() error {
		return ValidateBinaryTree[T](tree)
	})
}

// compress rotates left count times along the right spine, skipping one
// node after each rotation.
func (tree *BinaryTree[T]) compress(count int64) {
	aux := tree.root
	for ; count > 0 && aux != nil && aux.right != nil; count-- {
		promoted := aux.right
		aux.rotateLeft(tree)
		aux = promoted.right
	}
}
