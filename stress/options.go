package stress

import (
	"runtime"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/xlog"
)

var AllKinds = []tree.TreeKind{tree.BSTKind, tree.AVLKind, tree.RBTreeKind}

type Option func(*Runner) error

func WithTrees(n int) Option {
	return func(r *Runner) error {
		if n <= 0 {
			return infra.NewErrorStack("[stress] trees must be positive")
		}
		r.trees = n
		return nil
	}
}

// WithOperations sets the random insert/remove calls applied to each tree.
func WithOperations(n int) Option {
	return func(r *Runner) error {
		if n < 0 {
			return infra.NewErrorStack("[stress] negative operations")
		}
		r.operations = n
		return nil
	}
}

// WithKeySpace bounds the random values to [0, n). A small key space
// produces more duplicates and successful removes.
func WithKeySpace(n uint64) Option {
	return func(r *Runner) error {
		if n == 0 {
			return infra.NewErrorStack("[stress] empty key space")
		}
		r.keySpace = n
		return nil
	}
}

// WithKinds assigns the kinds to the trees round-robin.
func WithKinds(kinds ...tree.TreeKind) Option {
	return func(r *Runner) error {
		kinds = lo.Uniq(kinds)
		if len(kinds) == 0 {
			return infra.NewErrorStack("[stress] no tree kinds")
		}
		if unknown, ok := lo.Find(kinds, func(kind tree.TreeKind) bool {
			return !lo.Contains(AllKinds, kind)
		}); ok {
			return infra.NewErrorStack("[stress] unknown tree kind " + string(unknown))
		}
		r.kinds = kinds
		return nil
	}
}

func WithPoolSize(n int) Option {
	return func(r *Runner) error {
		if n <= 0 {
			return infra.NewErrorStack("[stress] pool size must be positive")
		}
		r.poolSize = n
		return nil
	}
}

func WithLogger(logger xlog.XLogger) Option {
	return func(r *Runner) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

func WithTreeStats(stats tree.TreeStats) Option {
	return func(r *Runner) error {
		r.stats = stats
		return nil
	}
}

func WithSeed(seed uint64) Option {
	return func(r *Runner) error {
		r.seed = seed
		return nil
	}
}

// WithInvariantChecks validates every tree after each mutation instead of
// once at the end of the job.
func WithInvariantChecks() Option {
	return func(r *Runner) error {
		r.invariantChecks = true
		return nil
	}
}

func defaultRunner() *Runner {
	return &Runner{
		trees:      64,
		operations: 1024,
		keySpace:   512,
		kinds:      AllKinds,
		poolSize:   runtime.GOMAXPROCS(0),
		logger:     xlog.NewNopXLogger(),
		seed:       1,
	}
}
