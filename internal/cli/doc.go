// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// docildos.
//
// Without a command docildos starts the dashboard; main owns that path. The
// other commands run here and share a Runtime, which wires the dispatcher,
// card registry, stats source and order updater for the configured mode.
//
// # Key Types
//
//   - Command: the available commands
//   - Args: parsed global and command-specific flags
//   - Runtime: collaborators for one dispatch mode (local, backend, remote)
//   - JSONResponse: the envelope written by --json
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//		cli.HandleAsk(args)
//	case cli.CmdServe:
//		cli.HandleServe(args)
//	}
//
// # Commands
//
//   - ask: one message, reply printed (styled, plain or JSON)
//   - chat: line-mode REPL with history
//   - serve: in-memory development backend
//   - config: show, init, path, get, set
//   - version, help
package cli
