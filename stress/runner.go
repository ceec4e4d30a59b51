package stress

import (
	"context"
	"errors"
	"fmt"
	randv2 "math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

var (
	ErrContentMismatch = errors.New("[stress] tree content mismatch")
	ErrUnexpectedError = errors.New("[stress] unexpected tree error")
	ErrJobPanic        = errors.New("[stress] job panic")
)

// Report summarizes a run. The counters only include finished jobs.
type Report struct {
	Trees      int
	Operations int64
	Inserted   int64
	Removed    int64
	Rejected   int64
	Failures   int
	Duration   time.Duration
	RSS        uint64
}

func (r Report) String() string {
	return fmt.Sprintf("trees=%d operations=%d inserted=%d removed=%d rejected=%d failures=%d duration=%s rss=%d",
		r.Trees, r.Operations, r.Inserted, r.Removed, r.Rejected, r.Failures, r.Duration, r.RSS)
}

type jobResult struct {
	operations int64
	inserted   int64
	removed    int64
	rejected   int64
	err        error
}

// Runner applies random workloads to independent trees on a worker pool.
// Every tree is owned by exactly one job.
type Runner struct {
	trees           int
	operations      int
	keySpace        uint64
	kinds           []tree.TreeKind
	poolSize        int
	logger          xlog.XLogger
	stats           tree.TreeStats
	seed            uint64
	invariantChecks bool
}

func NewRunner(opts ...Option) (*Runner, error) {
	r := defaultRunner()
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run blocks until every submitted job is done. A cancelled ctx stops
// submitting new jobs, the jobs already running are finished.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	pool, err := ants.NewPool(
		r.poolSize,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(r.logger)),
	)
	if err != nil {
		return Report{}, infra.WrapErrorStackWithMessage(err, "[stress] new pool")
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		lock    sync.Mutex
		report  = Report{}
		runErr  error
		collect = func(res jobResult) {
			lock.Lock()
			defer lock.Unlock()
			report.Trees++
			report.Operations += res.operations
			report.Inserted += res.inserted
			report.Removed += res.removed
			report.Rejected += res.rejected
			if res.err != nil {
				report.Failures++
				runErr = multierr.Append(runErr, res.err)
			}
		}
	)

submit:
	for i := 0; i < r.trees; i++ {
		select {
		case <-ctx.Done():
			r.logger.WarnContext(ctx, "[stress] run cancelled", zap.Int("submitted", i))
			break submit
		default:
		}
		idx, kind := i, r.kinds[i%len(r.kinds)]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			collect(r.runJob(idx, kind))
		}); err != nil {
			wg.Done()
			collect(jobResult{err: infra.WrapErrorStackWithMessage(err, fmt.Sprintf("[stress] submit tree %d", idx))})
		}
	}
	wg.Wait()

	report.Duration = time.Since(start)
	if rss, err := observability.ProcessRSS(ctx); err == nil {
		report.RSS = rss
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		runErr = multierr.Append(runErr, ctxErr)
	}
	r.logger.Info("[stress] run done",
		zap.Int("trees", report.Trees),
		zap.Int64("operations", report.Operations),
		zap.Int("failures", report.Failures),
		zap.Duration("duration", report.Duration),
		zap.Uint64("rss", report.RSS),
	)
	return report, runErr
}

func (r *Runner) newTree(kind tree.TreeKind) (tree.OrderedTree[uint64], func() error) {
	opts := []tree.TreeOption{
		tree.WithTreeLogger(r.logger),
		tree.WithTreeStats(r.stats),
	}
	if r.invariantChecks {
		opts = append(opts, tree.WithTreeInvariantChecks())
	}
	switch kind {
	case tree.AVLKind:
		t := tree.NewAVLTree[uint64](opts...)
		return t, func() error { return tree.ValidateAVLTree[uint64](t) }
	case tree.RBTreeKind:
		t := tree.NewRBTree[uint64](opts...)
		return t, func() error { return tree.ValidateRBTree[uint64](t) }
	default:
	}
	t := tree.NewBinaryTree[uint64](opts...)
	return t, func() error { return tree.ValidateBinaryTree[uint64](t) }
}

func (r *Runner) runJob(idx int, kind tree.TreeKind) (res jobResult) {
	defer func() {
		if p := recover(); p != nil {
			res.err = multierr.Append(res.err, infra.WrapErrorStackWithMessage(
				ErrJobPanic, fmt.Sprintf("tree %d (%s): %v", idx, kind, p),
			))
		}
	}()

	rand := randv2.New(randv2.NewPCG(r.seed, uint64(idx)))
	t, validate := r.newTree(kind)
	defer t.Release()
	ref := make(map[uint64]struct{}, r.keySpace)
	canRemove := kind != tree.RBTreeKind

	for i := 0; i < r.operations; i++ {
		v := rand.Uint64N(r.keySpace)
		_, exists := ref[v]
		res.operations++
		if canRemove && rand.IntN(3) == 0 {
			err := t.Remove(v)
			switch {
			case exists && err == nil:
				delete(ref, v)
				res.removed++
			case !exists && (errors.Is(err, tree.ErrValueNotFound) || errors.Is(err, tree.ErrTreeEmpty)):
				res.rejected++
			default:
				res.err = multierr.Append(res.err, infra.WrapErrorStackWithMessage(
					ErrUnexpectedError, fmt.Sprintf("tree %d (%s): remove %d: %v", idx, kind, v, err),
				))
				return res
			}
			continue
		}
		_, err := t.Insert(v)
		switch {
		case !exists && err == nil:
			ref[v] = struct{}{}
			res.inserted++
		case exists && errors.Is(err, tree.ErrValueExists):
			res.rejected++
		default:
			res.err = multierr.Append(res.err, infra.WrapErrorStackWithMessage(
				ErrUnexpectedError, fmt.Sprintf("tree %d (%s): insert %d: %v", idx, kind, v, err),
			))
			return res
		}
	}

	if bst, ok := t.(*tree.BinaryTree[uint64]); ok {
		tree.DSW[uint64](bst)
	}

	if err := validate(); err != nil {
		res.err = multierr.Append(res.err, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("tree %d (%s)", idx, kind)))
	}
	expected := lo.Keys(ref)
	slices.Sort(expected)
	if actual := t.Values(); !slices.Equal(expected, actual) || t.Len() != int64(len(expected)) {
		res.err = multierr.Append(res.err, infra.WrapErrorStackWithMessage(
			ErrContentMismatch, fmt.Sprintf("tree %d (%s): expected %d values, got %d", idx, kind, len(expected), len(actual)),
		))
	}
	if res.err != nil {
		r.logger.ErrorStack(res.err, "[stress] tree failed", zap.Int("tree", idx), zap.String("kind", string(kind)))
	}
	return res
}
