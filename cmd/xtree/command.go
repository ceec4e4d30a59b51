package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/stress"
	"github.com/benz9527/xtree/xlog"
)

type command struct {
	cfg    *config
	std    *stdio
	logger xlog.XLogger
	stats  tree.TreeStats
}

func newCommand(cfg *config, std *stdio, logger xlog.XLogger, stats tree.TreeStats) *command {
	return &command{
		cfg:    cfg,
		std:    std,
		logger: logger,
		stats:  stats,
	}
}

func (cmd *command) execute(ctx context.Context) error {
	if cmd.cfg.stress > 0 {
		return cmd.runStress(ctx)
	}
	return cmd.runTree()
}

func (cmd *command) treeOptions() []tree.TreeOption {
	opts := []tree.TreeOption{
		tree.WithTreeLogger(cmd.logger),
		tree.WithTreeStats(cmd.stats),
	}
	if cmd.cfg.checks {
		opts = append(opts, tree.WithTreeInvariantChecks())
	}
	return opts
}

func (cmd *command) buildTree() (tree.OrderedTree[int64], error) {
	opts := cmd.treeOptions()
	if cmd.cfg.bulk {
		return tree.NewBinaryTreeFromValues[int64](cmd.cfg.values, opts...), nil
	}

	var t tree.OrderedTree[int64]
	switch cmd.cfg.kind {
	case tree.AVLKind:
		t = tree.NewAVLTree[int64](opts...)
	case tree.RBTreeKind:
		t = tree.NewRBTree[int64](opts...)
	default:
		t = tree.NewBinaryTree[int64](opts...)
	}
	for _, v := range cmd.cfg.values {
		if _, err := t.Insert(v); errors.Is(err, tree.ErrValueExists) {
			cmd.logger.Warn("duplicate value skipped", zap.Int64("value", v))
		} else if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (cmd *command) runTree() error {
	t, err := cmd.buildTree()
	if err != nil {
		return err
	}
	defer t.Release()

	for _, v := range cmd.cfg.remove {
		err := t.Remove(v)
		switch {
		case err == nil:
		case errors.Is(err, tree.ErrValueNotFound), errors.Is(err, tree.ErrTreeEmpty):
			cmd.logger.Warn("value to remove is absent", zap.Int64("value", v))
		default:
			return err
		}
	}

	if cmd.cfg.dsw {
		bst, ok := t.(*tree.BinaryTree[int64])
		if !ok {
			panic("dsw on a balanced tree" /* debug assertion */)
		}
		tree.DSW[int64](bst)
	}

	_, _ = fmt.Fprintln(cmd.std.out, t.String())
	_, _ = fmt.Fprintf(cmd.std.out, "kind=%s len=%d height=%d\n", t.Kind(), t.Len(), t.Height())
	if len(cmd.cfg.search) > 0 {
		_, _ = fmt.Fprintf(cmd.std.out, "leftmost=%s rightmost=%s\n", t.Leftmost(), t.Rightmost())
	}
	for _, v := range cmd.cfg.search {
		if t.Search(v) != nil {
			_, _ = fmt.Fprintf(cmd.std.out, "search %d: found\n", v)
		} else {
			_, _ = fmt.Fprintf(cmd.std.out, "search %d: not found\n", v)
		}
	}
	return nil
}

func (cmd *command) runStress(ctx context.Context) error {
	opts := []stress.Option{
		stress.WithTrees(cmd.cfg.stress),
		stress.WithOperations(cmd.cfg.ops),
		stress.WithKeySpace(cmd.cfg.keySpace),
		stress.WithSeed(cmd.cfg.seed),
		stress.WithLogger(cmd.logger),
		stress.WithTreeStats(cmd.stats),
	}
	if cmd.cfg.pool > 0 {
		opts = append(opts, stress.WithPoolSize(cmd.cfg.pool))
	}
	if cmd.cfg.checks {
		opts = append(opts, stress.WithInvariantChecks())
	}
	runner, err := stress.NewRunner(opts...)
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx)
	_, _ = fmt.Fprintln(cmd.std.out, report.String())
	return err
}
