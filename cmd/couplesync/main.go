package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"couples-sync/internal/config"
	"couples-sync/internal/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		logger.Get().Debug("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		_ = logger.Sync()
		os.Exit(exitCode(err))
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: couplesync [--user NAME] [--password PW] [--token TOKEN] <command> [args]

commands:
  register                      create an account
  login                         log in and remember the token
  link                          request a link code for your partner
  redeem <code>                 link with the partner who issued code
  today                         show today's quiz, if any
  answer <quiz_id> <a1,a2,...>  submit answers (--guesses g1,g2,... for partner guesses)
  partner                       show your partner's profile
  me                            show your profile
  mood <scale> <status>         update your mood
  daily-question                fetch a conversation question
  riddle                        fetch a riddle quiz
`)
}
