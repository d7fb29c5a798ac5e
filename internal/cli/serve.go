// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Development backend command.
//
// Command: serve
// Short:   Run the in-memory backend the dashboard talks to
//
// Examples:
//   docildos serve
//   docildos serve --addr 0.0.0.0:8000 --rate 50
//   docildos serve --empty
//
// Flags:
//   -a, --addr ADDR     Listen address (default: server.addr)
//   --rate N            Requests per second per client, 0 = unlimited
//   --empty             Start without the sample data
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/docildos/internal/logging"
	"github.com/jeranaias/docildos/internal/server"
)

// shutdownTimeout bounds the wait for in-flight requests on exit.
const shutdownTimeout = 5 * time.Second

// serveOptions are the parsed serve flags.
type serveOptions struct {
	Addr  string
	Rate  float64
	Empty bool
}

func parseServeOptions(raw []string, addr string, rate float64) (serveOptions, error) {
	p := NewArgParser(raw, "empty")
	opts := serveOptions{Addr: p.Flag("addr", "a"), Rate: rate, Empty: p.BoolFlag("empty")}
	if opts.Addr == "" {
		opts.Addr = addr
	}
	if v, ok, err := p.FlagFloat("rate"); err != nil {
		return opts, err
	} else if ok {
		if v < 0 {
			return opts, NewValidationError("rate", p.Flag("rate"), "must not be negative")
		}
		opts.Rate = v
	}
	return opts, nil
}

// HandleServeCommand handles the "serve" command. It blocks until SIGINT or
// SIGTERM and then shuts the server down.
func HandleServeCommand(args Args) error {
	cfg, err := ResolveConfig(args)
	if err != nil {
		return err
	}
	opts, err := parseServeOptions(args.Raw, cfg.Server.Addr, cfg.Server.RatePerSec)
	if err != nil {
		return err
	}

	// The server owns the terminal, so it logs to stderr.
	logger := slog.New(logging.NewHandler(os.Stderr, cfg.Log))
	if args.Verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store := server.NewStore(nil)
	if !opts.Empty {
		store.Seed()
	}
	srv := server.NewServer(opts.Addr, store).
		WithLogger(logger).
		WithRateLimit(opts.Rate, 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, TitleStyle.Render("Docildos · backend de desenvolvimento"))
		fmt.Fprintln(os.Stderr, KeyValue("Endereço:", "http://"+srv.Addr()))
		seeded := "sim"
		if opts.Empty {
			seeded = "não"
		}
		fmt.Fprintln(os.Stderr, KeyValue("Dados de exemplo:", seeded))
		fmt.Fprintln(os.Stderr, DimStyle.Render("Ctrl+C para encerrar"))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return NewCommandError("serve", "listen", opts.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return NewCommandError("serve", "shutdown", "requests still in flight", err)
	}
	return nil
}
