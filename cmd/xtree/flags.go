package main

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
)

type config struct {
	kind        tree.TreeKind
	values      []int64
	remove      []int64
	search      []int64
	bulk        bool
	dsw         bool
	checks      bool
	stress      int
	ops         int
	keySpace    uint64
	pool        int
	seed        uint64
	timeout     time.Duration
	exporter    observability.MetricsExporter
	metricsAddr string
	logLevel    string
	logFormat   string
}

func parseFlags(args []string, output io.Writer) (*config, error) {
	var (
		cfg     = &config{}
		kind    string
		metrics string
		fs      = pflag.NewFlagSet("xtree", pflag.ContinueOnError)
	)
	fs.SetOutput(output)
	fs.StringVar(&kind, "kind", string(tree.AVLKind), "tree kind: bst, avl or rbtree")
	fs.Int64SliceVar(&cfg.values, "values", nil, "values inserted in order, e.g. 5,3,7")
	fs.Int64SliceVar(&cfg.remove, "remove", nil, "values removed after the inserts")
	fs.Int64SliceVar(&cfg.search, "search", nil, "values looked up after printing the tree")
	fs.BoolVar(&cfg.bulk, "bulk", false, "bst only, bulk load the sorted values instead of inserting them")
	fs.BoolVar(&cfg.dsw, "dsw", false, "bst only, rebuild the tree with DSW before printing")
	fs.BoolVar(&cfg.checks, "checks", false, "validate the tree after every mutation")
	fs.IntVar(&cfg.stress, "stress", 0, "run the randomized checker over N trees instead")
	fs.IntVar(&cfg.ops, "ops", 1024, "stress operations per tree")
	fs.Uint64Var(&cfg.keySpace, "key-space", 512, "stress values are drawn from [0, key-space)")
	fs.IntVar(&cfg.pool, "pool", 0, "stress worker pool size, GOMAXPROCS when 0")
	fs.Uint64Var(&cfg.seed, "seed", 1, "stress random seed")
	fs.DurationVar(&cfg.timeout, "timeout", time.Minute, "deadline of the tree or stress command")
	fs.StringVar(&metrics, "metrics", "none", "metrics exporter: none, console or prometheus")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", ":9464", "prometheus listen address")
	fs.StringVar(&cfg.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR, XLOG_LVL when empty")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "log encoder: json or text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.kind = tree.TreeKind(strings.ToLower(strings.TrimSpace(kind)))
	switch cfg.kind {
	case tree.BSTKind, tree.AVLKind, tree.RBTreeKind:
	default:
		return nil, infra.NewErrorStack("unknown tree kind " + kind)
	}
	if (cfg.bulk || cfg.dsw) && cfg.kind != tree.BSTKind {
		return nil, infra.NewErrorStack("--bulk and --dsw require --kind bst")
	}
	exporter, err := observability.ParseMetricsExporter(metrics)
	if err != nil {
		return nil, err
	}
	cfg.exporter = exporter
	if cfg.stress < 0 {
		return nil, infra.NewErrorStack("--stress must not be negative")
	}
	return cfg, nil
}
