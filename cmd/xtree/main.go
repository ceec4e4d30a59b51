package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "xtree: %v\n", err)
		os.Exit(2)
	}
	std := &stdio{
		out: os.Stdout,
		err: zapcore.Lock(os.Stderr),
	}
	if err := run(cfg, std); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "xtree: %v\n", err)
		os.Exit(1)
	}
}
