// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot message command.
//
// Command: ask [mensagem]
// Short:   Send one message and print the reply
//
// Examples:
//   docildos ask "qual o último pedido?"
//   docildos ask --json "ficha técnica do panetone"
//   echo "como está hoje?" | docildos ask
//   docildos --mode remote ask --session loja-1 "pedido"
//
// Flags:
//   --json              Output the reply and raw cards as JSON
//   --plain             Plain text even on a terminal
//   -s, --session ID    Chat session for remote mode
//   -q, --quiet         No progress notes on stderr
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/docildos/internal/errmap"
)

// MaxStdinBytes bounds a message read from a pipe.
const MaxStdinBytes = 16 * 1024

// askUsage is shown when no message is given.
const askUsage = `docildos ask "qual o último pedido?"`

// DispatchError is returned when the dispatcher failed. Notice carries the
// user-facing text the conversation store appended.
type DispatchError struct {
	Notice errmap.Notice
}

func (e *DispatchError) Error() string {
	return e.Notice.Message
}

// askOptions controls how runAsk writes the reply.
type askOptions struct {
	JSON     bool
	Styled   bool
	Markdown bool
	Width    int
}

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	cfg, err := ResolveConfig(args)
	if err != nil {
		return err
	}
	logger, closeLog := OpenLog(cfg)
	defer closeLog()

	rt, err := NewRuntime(cfg, logger)
	if err != nil {
		return err
	}

	question := args.Query
	if question == "" && IsStdinPiped() {
		question, err = readQuestion(os.Stdin)
		if err != nil {
			return err
		}
		if !args.Quiet && !args.JSON {
			fmt.Fprintln(os.Stderr, DimStyle.Render("[+] mensagem lida da entrada padrão"))
		}
	}

	return runAsk(rt, question, askOptions{
		JSON:     args.JSON,
		Styled:   IsStdoutTTY() && !args.Plain,
		Markdown: cfg.UI.Markdown,
		Width:    GetTerminalWidth(),
	}, os.Stdout)
}

// readQuestion reads a message from r, up to MaxStdinBytes.
func readQuestion(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxStdinBytes+1))
	if err != nil {
		return "", WrapError(err, "read stdin")
	}
	if len(data) > MaxStdinBytes {
		return "", NewValidationError("message", "", fmt.Sprintf("longer than %d bytes", MaxStdinBytes))
	}
	return strings.TrimSpace(string(data)), nil
}

// runAsk sends question through a fresh conversation and writes the reply.
func runAsk(rt *Runtime, question string, opts askOptions, w io.Writer) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrMissingArgument("message", askUsage)
	}

	store := rt.NewStore()
	start := time.Now()
	out, ok := store.SubmitAndWait(question)
	if !ok {
		return NewCommandError("ask", "dispatch", "message was not accepted", nil)
	}
	if out.Notice != nil {
		return &DispatchError{Notice: *out.Notice}
	}

	if opts.JSON {
		data := newAskData(question, out.Message, out.Actions)
		data.Mode = rt.Mode
		data.SessionID = rt.SessionID
		data.Duration = time.Since(start).Round(time.Millisecond).String()
		return NewJSONResponse("ask", data).Write(w)
	}

	newReplyPrinter(w, rt.Registry, opts.Styled, opts.Markdown, opts.Width).Print(out.Message)
	return nil
}

// dispatchExitCode maps a dispatch failure onto the exit codes.
func dispatchExitCode(err error) (int, bool) {
	var de *DispatchError
	if !errors.As(err, &de) {
		return 0, false
	}
	switch de.Notice.Kind {
	case errmap.KindNetwork:
		return ExitNetworkError, true
	case errmap.KindServer:
		return ExitServerError, true
	case errmap.KindClient:
		if de.Notice.Message == errmap.MsgNotFound {
			return ExitNotFoundError, true
		}
		return ExitUsageError, true
	}
	return ExitGeneralError, true
}
