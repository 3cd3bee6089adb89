// Command judgecli talks to a judge server: browse problems, sign in,
// submit solutions and page through your submission history.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"judge_client/internal/platform/config"
	"judge_client/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newCommand(in io.Reader, out io.Writer) *cli.Command {
	a := &app{}
	root := &cli.Command{
		Name:   "judgecli",
		Usage:  "command-line client for the online judge",
		Reader: in,
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "judge API base URL"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "session-backend", Usage: "memory, file, redis or postgres"},
			&cli.StringFlag{Name: "session-file", Usage: "session file for the file backend"},
			&cli.DurationFlag{Name: "timeout", Usage: "per-request timeout, 0 for none"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg := config.Load()
			if v := cmd.String("base-url"); v != "" {
				cfg.JudgeBaseURL = v
			}
			if v := cmd.String("log-level"); v != "" {
				cfg.LogLevel = v
			}
			if v := cmd.String("session-backend"); v != "" {
				cfg.SessionBackend = v
			}
			if v := cmd.String("session-file"); v != "" {
				cfg.SessionFile = v
			}
			if cmd.IsSet("timeout") {
				cfg.HTTPTimeout = cmd.Duration("timeout")
			}

			logger := logging.New(os.Stderr, cfg.LogLevel)
			built, err := newApp(ctx, cfg, logger, out)
			if err != nil {
				return ctx, err
			}
			*a = *built
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if a.logger != nil {
				a.Close()
			}
			return nil
		},
	}
	root.Commands = a.commands()
	return root
}
