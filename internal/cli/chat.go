// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for terminals where the dashboard is unwanted.
//
// Command: chat
// Short:   Interactive chat over the same conversation as the dashboard
//
// Examples:
//   docildos chat
//   docildos --mode backend chat
//   docildos chat --plain
//
// Interactive commands:
//   /ajuda, /help        Show available commands
//   /atalhos             List quick actions
//   /atalho N|id         Run a quick action
//   /avancar [id]        Advance the newest order card (or order id)
//   /resumo              Show today's numbers
//   /historico           Show the conversation
//   /limpar              Start over
//   /sair, /quit         Exit (also: sair, exit, quit, Ctrl+D)
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/config"
	"github.com/jeranaias/docildos/internal/conversation"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/errmap"
	"github.com/jeranaias/docildos/internal/model"
)

// chatRequestTimeout bounds order updates and stats lookups from the REPL.
const chatRequestTimeout = 15 * time.Second

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor that keeps its history in the config
// directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeSlash)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history, readable by the owner only.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// slashCommands are offered by tab completion.
var slashCommands = []string{
	"/ajuda", "/atalhos", "/atalho", "/avancar", "/resumo", "/historico", "/limpar", "/sair",
}

func completeSlash(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, c := range slashCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession is the REPL state: a conversation store plus the order cards
// already advanced from this session.
type chatSession struct {
	rt      *Runtime
	store   *conversation.Store
	printer *replyPrinter
	w       io.Writer

	// advanced holds message id and card index of acknowledged cards.
	advanced map[orderCardKey]bool
}

type orderCardKey struct {
	msgID string
	card  int
}

func newChatSession(rt *Runtime, printer *replyPrinter, w io.Writer) *chatSession {
	s := &chatSession{
		rt:       rt,
		store:    rt.NewStore(),
		printer:  printer,
		w:        w,
		advanced: make(map[orderCardKey]bool),
	}
	return s
}

// HandleChatCommand handles the "chat" command.
func HandleChatCommand(args Args) error {
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

	styled := IsStdoutTTY() && !args.Plain
	printer := newReplyPrinter(os.Stdout, rt.Registry, styled, cfg.UI.Markdown, GetTerminalWidth())
	session := newChatSession(rt, printer, os.Stdout)

	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		session.printWelcome()
	}

	for {
		line, err := input.ReadInput(PromptStyle.Render("docildos> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D or a closed pipe all end the session.
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				logger.Warn("read input", "error", err)
			}
			fmt.Fprintln(os.Stdout)
			return nil
		}
		if !session.handleLine(line) {
			return nil
		}
	}
}

// handleLine processes one input line and reports whether the REPL should
// continue.
func (s *chatSession) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	if strings.HasPrefix(line, "/") {
		cont, err := s.handleSlashCommand(line)
		if err != nil {
			fmt.Fprintf(s.w, "%s %v\n", ErrorStyle.Render("[Erro]"), err)
		}
		return cont
	}

	switch strings.ToLower(line) {
	case "sair", "exit", "quit":
		return false
	}

	s.run(s.store.Submit(line))
	return true
}

// run executes a store command synchronously and prints the result.
func (s *chatSession) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg, ok := cmd().(conversation.DispatchedMsg)
	if !ok {
		return
	}
	out := s.store.Complete(msg)
	if out.Stale {
		return
	}
	s.printer.Print(out.Message)
	if out.HasToast() {
		fmt.Fprintln(s.w, WarningStyle.Render("[!] "+out.Notice.Toast))
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (s *chatSession) handleSlashCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/ajuda", "/help", "/h", "/?", "/":
		s.printHelp()
	case "/atalhos", "/actions":
		s.printQuickActions()
	case "/atalho", "/action":
		return true, s.runQuickAction(args)
	case "/avancar", "/avançar", "/advance":
		return true, s.advanceOrder(args)
	case "/resumo", "/stats":
		return true, s.printStats()
	case "/historico", "/histórico", "/history":
		for _, msg := range s.store.Messages() {
			s.printer.Print(msg)
		}
	case "/limpar", "/clear", "/c":
		s.store.Reset()
		clear(s.advanced)
		fmt.Fprintln(s.w, CommandStyle.Render("[Conversa reiniciada]"))
	case "/sair", "/quit", "/q", "/exit":
		return false, nil
	default:
		return true, fmt.Errorf("comando desconhecido: %s (digite /ajuda)", command)
	}
	return true, nil
}

func (s *chatSession) runQuickAction(args []string) error {
	if len(args) == 0 {
		return ErrMissingArgument("atalho", "/atalho 1")
	}
	id := args[0]
	if n, err := strconv.Atoi(id); err == nil {
		if n < 1 || n > len(dispatch.QuickActions) {
			return NewValidationError("atalho", id, fmt.Sprintf("use 1 a %d", len(dispatch.QuickActions)))
		}
		id = dispatch.QuickActions[n-1].ID
	}
	qa, ok := dispatch.LookupQuickAction(id)
	if !ok {
		return &NotFoundError{Resource: "atalho", ID: id}
	}
	s.printer.Print(model.NewUserMessage(qa.Text))
	s.run(s.store.TriggerQuickAction(qa.ID))
	return nil
}

// advanceOrder moves the newest order card, or the one with the given id,
// to its next status.
func (s *chatSession) advanceOrder(args []string) error {
	var want string
	if len(args) > 0 {
		want = strings.TrimLeft(args[0], "#")
	}
	view, key, ok := s.findOrder(want)
	if !ok {
		if want != "" {
			return &NotFoundError{Resource: "pedido", ID: want}
		}
		return errors.New("nenhum pedido na conversa")
	}

	if s.advanced[key] {
		return fmt.Errorf("pedido #%s já foi atualizado; peça o pedido de novo para ver o status atual", view.Order.ID)
	}
	change, err := view.AdvanceNext()
	if err != nil {
		return fmt.Errorf("pedido #%s já foi entregue", view.Order.ID)
	}

	if s.rt.Updater != nil {
		ctx, cancel := context.WithTimeout(context.Background(), chatRequestTimeout)
		defer cancel()
		if err := s.rt.Updater.UpdateOrderStatus(ctx, change.OrderID, change.To); err != nil {
			s.rt.Logger.Warn("order status change failed",
				"order_id", change.OrderID, "to", string(change.To), "error", err)
			return errors.New(errmap.Message(err))
		}
	}

	ack, err := s.store.ReportOrderStatusChange(change.OrderID, change.To)
	if err != nil {
		return err
	}
	s.advanced[key] = true
	s.rt.Logger.Info("order advanced", "order_id", change.OrderID, "from", string(change.From), "to", string(change.To))
	s.printer.Print(ack)
	return nil
}

// findOrder returns the newest resolvable order card, or the newest one
// for id, exactly as it was sent.
func (s *chatSession) findOrder(id string) (cards.OrderView, orderCardKey, bool) {
	msgs := s.store.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		for j := len(msgs[i].Cards) - 1; j >= 0; j-- {
			c := msgs[i].Cards[j]
			if c.Type != model.CardOrder {
				continue
			}
			d, err := s.rt.Registry.Resolve(c)
			if err != nil {
				continue
			}
			view := d.(cards.OrderView)
			if id != "" && view.Order.ID != id {
				continue
			}
			return view, orderCardKey{msgID: msgs[i].ID, card: j}, true
		}
	}
	return cards.OrderView{}, orderCardKey{}, false
}

func (s *chatSession) printStats() error {
	ctx, cancel := context.WithTimeout(context.Background(), chatRequestTimeout)
	defer cancel()
	stats, err := s.rt.Catalog.Stats(ctx)
	if err != nil {
		return errors.New(errmap.Message(err))
	}
	card, err := model.NewStatsCard(stats)
	if err != nil {
		return err
	}
	s.printer.Print(model.NewAssistantMessage("", card))
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *chatSession) printWelcome() {
	fmt.Fprintln(s.w)
	fmt.Fprintln(s.w, TitleStyle.Render("Docildos · chat"))
	fmt.Fprintln(s.w, Separator(30))
	fmt.Fprintln(s.w, KeyValue("Modo:", s.rt.ModeLabel()))
	if s.rt.SessionID != "" {
		fmt.Fprintln(s.w, KeyValue("Sessão:", s.rt.SessionID))
	}
	fmt.Fprintln(s.w)
	if greeting, ok := s.store.Last(); ok {
		s.printer.Print(greeting)
	}
	fmt.Fprintln(s.w, DimStyle.Render("Digite sua mensagem e tecle Enter. Comandos: /ajuda, /sair"))
	fmt.Fprintln(s.w)
}

func (s *chatSession) printHelp() {
	fmt.Fprintln(s.w, TitleStyle.Render("Comandos"))
	for _, row := range [][2]string{
		{"/atalhos", "lista os atalhos"},
		{"/atalho N", "envia o atalho N"},
		{"/avancar [id]", "avança o último pedido mostrado"},
		{"/resumo", "números do dia"},
		{"/historico", "mostra a conversa"},
		{"/limpar", "recomeça a conversa"},
		{"/sair", "encerra"},
	} {
		fmt.Fprintf(s.w, "  %s %s\n", CommandStyle.Render(fmt.Sprintf("%-14s", row[0])), DimStyle.Render(row[1]))
	}
}

func (s *chatSession) printQuickActions() {
	for i, qa := range dispatch.QuickActions {
		fmt.Fprintf(s.w, "  %s %s %s\n",
			CommandStyle.Render(strconv.Itoa(i+1)), qa.Label, DimStyle.Render("("+qa.ID+")"))
	}
}
