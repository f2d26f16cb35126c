package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vudials/vudials-go/internal/config"
	"github.com/vudials/vudials-go/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := lookupCommand(args[0])
	if !ok {
		fmt.Fprintf(stderr, "vudials: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "vudials: load config: %v\n", err)
		return 1
	}
	log, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "vudials: init logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := &cliEnv{cfg: cfg, log: log, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, env, args[1:]); err != nil {
		fmt.Fprintf(stderr, "vudials %s: %v\n", cmd.name, err)
		return 1
	}
	return 0
}
