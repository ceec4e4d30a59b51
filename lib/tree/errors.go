package tree

import "errors"

// Expected conditions, the tree is left unmodified.
var (
	ErrTreeEmpty         = errors.New("[xtree] empty tree")
	ErrValueExists       = errors.New("[xtree] value already exists")
	ErrValueNotFound     = errors.New("[xtree] value not found")
	ErrRemoveUnsupported = errors.New("[xtree] remove is not supported")
)

// Broken invariants. They are bugs, never recoverable conditions.
var (
	ErrOrderViolation       = errors.New("[xtree] order violation")
	ErrParentLinkViolation  = errors.New("[xtree] parent link violation")
	ErrSizeViolation        = errors.New("[xtree] size violation")
	ErrHeightCacheViolation = errors.New("[xtree] height cache violation")
	ErrAVLViolation         = errors.New("[xtree] avl balance violation")
	ErrRootColorViolation   = errors.New("[xtree] rbtree root color violation")
	ErrRedViolation         = errors.New("[xtree] rbtree red violation")
	ErrBlackViolation       = errors.New("[xtree] rbtree black violation")
)
