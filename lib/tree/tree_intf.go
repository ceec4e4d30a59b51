package tree

import "github.com/benz9527/xtree/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type TreeKind string

const (
	BSTKind    TreeKind = "bst"
	AVLKind    TreeKind = "avl"
	RBTreeKind TreeKind = "rbtree"
)

// OrderedTree is the public surface shared by the plain binary search
// tree and its balanced variants. Values are unique.
// A tree is not safe for concurrent mutation, callers have to serialize
// the access by themselves.
type OrderedTree[T infra.OrderedKey] interface {
	Kind() TreeKind
	Len() int64
	Height() int
	Root() *Node[T]
	Search(value T) *Node[T]
	// Insert returns the new node, or ErrValueExists without
	// modifying the tree.
	Insert(value T) (*Node[T], error)
	// Remove returns ErrTreeEmpty or ErrValueNotFound without
	// modifying the tree.
	Remove(value T) error
	Leftmost() *Node[T]
	Rightmost() *Node[T]
	Foreach(action func(idx int64, node *Node[T]) bool)
	Values() []T
	Release()
	String() string
}

// TreeStats receives the mutation events of a tree.
type TreeStats interface {
	RecordInsert(kind TreeKind, inserted bool)
	RecordRemove(kind TreeKind, removed bool)
	RecordRotation(kind TreeKind, dir RBDirection)
	RecordRecolor(kind TreeKind)
	RecordRebuild(kind TreeKind, passes int)
	// RecordBulkLoad and RecordRelease report nodes added or dropped
	// without going through Insert or Remove.
	RecordBulkLoad(kind TreeKind, nodes int64)
	RecordRelease(kind TreeKind, nodes int64)
}
