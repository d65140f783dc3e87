package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"3tcapital/atolonline/internal/infrastructure/config"
	ctxutil "3tcapital/atolonline/internal/infrastructure/context"
	"3tcapital/atolonline/internal/infrastructure/logger"
)

const usage = `usage: atolctl [-env FILE] COMMAND [ARGS]

commands:
  submit FILE...            register the documents described in FILE (YAML or JSON)
  report UUID               print the processing report of a document
  token                     check credentials by acquiring a token
  history [-limit N] ID     print audited exchanges of a correlation id
`

var errUsage = errors.New("invalid arguments")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "atolctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("atolctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	envFile := fs.String("env", ".env", "dotenv file loaded before the environment")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	command, commandArgs := fs.Arg(0), fs.Args()[1:]

	cfg, err := config.Load(*envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, correlationID := ctxutil.EnsureCorrelationID(ctx)
	log = log.With("correlation_id", correlationID, "command", command)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	switch command {
	case "submit":
		return a.submit(ctx, commandArgs, stdout)
	case "report":
		return a.report(ctx, commandArgs, stdout)
	case "token":
		return a.token(ctx, commandArgs, stdout)
	case "history":
		return a.history(ctx, commandArgs, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}
