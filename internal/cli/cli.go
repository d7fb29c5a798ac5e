// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing and command dispatch for docildos.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/jeranaias/docildos/internal/config"
	"github.com/jeranaias/docildos/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdServe
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdServe:
		return "serve"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "tui"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	Mode    string // overrides dispatch.mode
	APIURL  string // overrides api.base_url

	// Command-specific
	Query      string
	Session    string
	Plain      bool // no markdown or card styling
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Force      bool

	// Unknown is the unrecognized command word, when there was one.
	Unknown string

	// Raw args (remaining after the command word)
	Raw []string
}

const usageText = `docildos - assistente de confeitaria no terminal

Usage:
  docildos                       Start the dashboard (default)
  docildos ask "mensagem"        Send one message and print the reply
  docildos chat                  Line-mode chat
  docildos serve [--addr A]      Run the in-memory development backend
  docildos config [show|init|path|get|set]
  docildos version
  docildos help

Global flags:
  --mode local|backend|remote   Where replies come from (default: config)
  --api-url URL                 Backend base URL
  --json                        Machine-readable output (ask, config, version)
  -q, --quiet                   Minimal output
  -v, --verbose                 Debug logging

Examples:
  docildos ask "qual o último pedido?"
  docildos --mode backend ask "ficha técnica do panetone"
  docildos serve --addr 127.0.0.1:8000 --rate 20
  docildos config set dispatch.mode remote

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "docildos version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name) and returns the command
// and its arguments.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs
	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs
	case "serve", "server":
		return CmdServe, parsedArgs
	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Unknown = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags are only recognized before the command word.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsedArgs Args

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			parsedArgs.Quiet = true
		case arg == "-v" || arg == "--verbose":
			parsedArgs.Verbose = true
		case arg == "--json":
			parsedArgs.JSON = true
		case arg == "--mode" && i+1 < len(args):
			i++
			parsedArgs.Mode = strings.ToLower(args[i])
		case strings.HasPrefix(arg, "--mode="):
			parsedArgs.Mode = strings.ToLower(strings.TrimPrefix(arg, "--mode="))
		case arg == "--api-url" && i+1 < len(args):
			i++
			parsedArgs.APIURL = args[i]
		case strings.HasPrefix(arg, "--api-url="):
			parsedArgs.APIURL = strings.TrimPrefix(arg, "--api-url=")
		default:
			return args[i:], parsedArgs
		}
	}
	return nil, parsedArgs
}

// parseAskArgs parses ask command specific arguments. Words that are not
// flags form the message.
func parseAskArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "json", "plain", "quiet", "q")
	args.JSON = args.JSON || p.BoolFlag("json")
	args.Plain = p.BoolFlag("plain")
	args.Quiet = args.Quiet || p.BoolFlag("quiet", "q")
	args.Session = p.Flag("session", "s")
	args.Query = JoinPositionalArgs(p, 0)
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "plain")
	args.Plain = p.BoolFlag("plain")
	args.Session = p.Flag("session", "s")
}

// parseConfigArgs parses `config <sub> [key] [value]`.
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "json", "force")
	args.JSON = args.JSON || p.BoolFlag("json")
	args.Force = p.BoolFlag("force")
	args.Subcommand = p.Subcommand()
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = JoinPositionalArgs(p, 2)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// ResolveConfig returns a copy of the global config with the command-line
// overrides applied and validated.
func ResolveConfig(args Args) (*config.Config, error) {
	cfg := config.Global().Clone()
	if args.Mode != "" {
		cfg.Dispatch.Mode = args.Mode
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = strings.TrimRight(args.APIURL, "/")
	}
	if args.Session != "" {
		cfg.API.SessionID = args.Session
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// OpenLog sets up file logging for cfg. When the log file cannot be opened
// logging is discarded and a warning goes to stderr.
func OpenLog(cfg *config.Config) (*slog.Logger, func() error) {
	path, err := cfg.LogPath()
	if err == nil {
		var logger *slog.Logger
		var closeFn func() error
		logger, closeFn, err = logging.Setup(cfg.Log, path)
		if err == nil {
			return logger, closeFn
		}
	}
	fmt.Fprintf(os.Stderr, "%s logging disabled: %v\n", WarningStyle.Render("[!]"), err)
	return logging.Discard(), func() error { return nil }
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	HandleErrorAndExit("ask", HandleAskCommand(args), args.JSON)
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	HandleErrorAndExit("chat", HandleChatCommand(args), false)
}

// HandleServe handles the "serve" command.
func HandleServe(args Args) {
	HandleErrorAndExit("serve", HandleServeCommand(args), false)
}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	HandleErrorAndExit("config", HandleConfigCommand(args, os.Stdout), args.JSON)
}

// HandleVersionWithJSON handles the "version" command with JSON output support.
func HandleVersionWithJSON(args Args) {
	if args.JSON {
		resp := NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		})
		_ = resp.Print()
		return
	}
	PrintVersion(os.Stdout)
}

// HandleHelp prints usage. An unknown command word is a usage error.
func HandleHelp(args Args) {
	if args.Unknown != "" {
		PrintUsage(os.Stderr)
		HandleErrorAndExit("help", NewValidationErrorWithExample(
			"command", args.Unknown, "unknown command", "docildos help"), false)
		return
	}
	PrintUsage(os.Stdout)
}
