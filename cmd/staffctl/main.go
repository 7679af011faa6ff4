package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"staff-console-go/internal/app"
	"staff-console-go/internal/cli"
	"staff-console-go/internal/console"
	"staff-console-go/internal/notify"
	"staff-console-go/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelWarn
	if value := os.Getenv("LOG_LEVEL"); value != "" {
		level = logger.ParseLevel(value)
	}
	log := logger.New(os.Stderr, level, "text")

	root := cli.NewRootCommand(func(ctx context.Context, out io.Writer) (*cli.Env, error) {
		application, err := app.New(log, app.WithNotify(notify.NewWriterSink(out)))
		if err != nil {
			return nil, err
		}
		cfg := application.Config()
		return &cli.Env{
			Employees: application.Employees(),
			Teams:     application.Teams(),
			Avatars:   application.Avatars(),
			Dashboard: application.Dashboard(),
			Store:     application.ResultSets(),
			CacheTTL:  cfg.Cache.TTL,
			Notify:    application.Notify(),
			Clock:     application.Clock(),
			Hours:     console.HoursRange{Min: cfg.Teams.HoursMin, Max: cfg.Teams.HoursMax},
			Log:       log,
			Close:     application.Close,
		}, nil
	})

	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, cli.ErrInvalidInput) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
