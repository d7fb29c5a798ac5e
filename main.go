// docildos - a confectionery assistant chat dashboard for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docildos/internal/cli"
	"github.com/jeranaias/docildos/internal/ui/chat"
	"github.com/jeranaias/docildos/internal/ui/shell"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdServe:
		cli.HandleServe(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersionWithJSON(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	default:
		cli.PrintUsage(os.Stdout)
	}
}

// runTUI starts the dashboard.
func runTUI(args cli.Args) {
	cfg, err := cli.ResolveConfig(args)
	if err != nil {
		cli.HandleErrorAndExit("tui", err, false)
		return
	}

	logger, closeLog := cli.OpenLog(cfg)
	defer closeLog()

	rt, err := cli.NewRuntime(cfg, logger)
	if err != nil {
		cli.HandleErrorAndExit("tui", err, false)
		return
	}
	logger.Info("starting dashboard", "mode", rt.Mode, "version", Version)

	theme := styles.NewTheme()
	opts := []chat.Option{
		chat.WithRegistry(rt.Registry),
		chat.WithCatalog(rt.Catalog),
		chat.WithStatsHeader(cfg.UI.ShowStatsHeader),
		chat.WithMarkdown(cfg.UI.Markdown),
		chat.WithModeLabel(rt.ModeLabel()),
		chat.WithLogger(logger),
	}
	if rt.Updater != nil {
		opts = append(opts, chat.WithOrderUpdater(rt.Updater))
	}
	chatModel := chat.New(theme, rt.NewStore(), opts...)

	p := tea.NewProgram(
		shell.New(theme, chatModel, cfg.UI.ShowSidebar),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		logger.Error("dashboard exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error running docildos: %v\n", err)
		closeLog()
		os.Exit(cli.ExitGeneralError)
	}
	logger.Info("dashboard closed")
}
