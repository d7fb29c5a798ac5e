// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/conversation"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/errmap"
	"github.com/jeranaias/docildos/internal/ui/components"
)

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the first stats load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadStatsCmd())
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case conversation.DispatchedMsg:
		return m.handleDispatched(msg)

	case OrderAdvancedMsg:
		return m.handleOrderAdvanced(msg)

	case StatsLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("load stats", "error", msg.Err)
			return m, nil
		}
		stats := msg.Stats
		m.stats = &stats
		m.layout()
		m.refresh(false)
		return m, nil

	case VoiceStartedMsg:
		if msg.Err != nil {
			m.store.SetVoiceCapture(false)
			m.logger.Warn("voice capture failed to start", "error", msg.Err)
			toastCmd := m.addToast(components.NewErrorToast("Não foi possível iniciar a gravação."))
			focusCmd := m.input.Focus()
			m.refresh(false)
			return m, tea.Batch(toastCmd, focusCmd)
		}
		return m, nil

	case VoiceStoppedMsg:
		if msg.Err != nil {
			m.logger.Warn("voice capture failed", "error", msg.Err)
			cmd := m.addToast(components.NewErrorToast("Não foi possível transcrever o áudio."))
			return m, cmd
		}
		if msg.Text != "" {
			m.input.SetValue(msg.Text)
			m.input.CursorEnd()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.store.Composing() && !m.store.Recording() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.ticking = false
		return m, nil
	}

	var cmds []tea.Cmd
	if !m.store.Recording() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Voice):
		return m.toggleVoice()

	case key.Matches(msg, m.keys.NextCard):
		m.moveSelection(1)
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.PrevCard):
		m.moveSelection(-1)
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.Advance):
		return m.advanceSelected()

	case key.Matches(msg, m.keys.Reset):
		m.reset()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissAll()
		return m, nil

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	for i, b := range m.keys.QuickActions {
		if key.Matches(msg, b) {
			return m.startDispatch(m.store.TriggerQuickAction(dispatch.QuickActions[i].ID))
		}
	}

	if m.store.Recording() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	cmd := m.store.Submit(m.input.Value())
	if cmd == nil {
		return m, nil
	}
	m.input.Reset()
	return m.startDispatch(cmd)
}

// startDispatch runs a command returned by the store. A nil command means
// the store ignored the request.
func (m Model) startDispatch(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if cmd == nil {
		return m, nil
	}
	m.lastActions = nil
	m.layout()
	m.refresh(true)
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) handleDispatched(msg conversation.DispatchedMsg) (tea.Model, tea.Cmd) {
	out := m.store.Complete(msg)
	if out.Stale {
		return m, nil
	}
	m.lastActions = out.Actions
	m.layout()
	m.refresh(true)

	if out.HasToast() {
		if toast, ok := components.ToastFromNotice(*out.Notice); ok {
			cmd := m.addToast(toast)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) reset() {
	m.store.Reset()
	m.input.Reset()
	m.lastActions = nil
	m.clearSelection()
	clear(m.pendingOrder)
	clear(m.advanced)
	m.layout()
	m.refresh(true)
}

// =============================================================================
// VOICE
// =============================================================================

func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	if m.store.Recording() {
		m.store.SetVoiceCapture(false)
		focusCmd := m.input.Focus()
		m.refresh(false)
		return m, tea.Batch(focusCmd, m.voiceStopCmd())
	}
	m.store.SetVoiceCapture(true)
	m.input.Blur()
	m.refresh(false)
	return m, tea.Batch(m.voiceStartCmd(), m.spinner.Tick)
}

func (m Model) voiceStartCmd() tea.Cmd {
	start := m.voice.Start
	if start == nil {
		return nil
	}
	return func() tea.Msg {
		return VoiceStartedMsg{Err: start(context.Background())}
	}
}

func (m Model) voiceStopCmd() tea.Cmd {
	stop := m.voice.Stop
	if stop == nil {
		return nil
	}
	return func() tea.Msg {
		text, err := stop(context.Background())
		return VoiceStoppedMsg{Text: text, Err: err}
	}
}

// =============================================================================
// ORDER TRANSITIONS
// =============================================================================

func (m Model) advanceSelected() (tea.Model, tea.Cmd) {
	ref, ok := m.selectedRef()
	if !ok {
		cmd := m.addToast(components.NewStatusToast("Selecione um pedido com ctrl+n."))
		return m, cmd
	}
	view := ref.view
	if m.advanced[ref.key] {
		cmd := m.addToast(components.NewStatusToast(
			fmt.Sprintf("Pedido #%s já foi atualizado. Consulte o pedido de novo para ver o status atual.", view.Order.ID)))
		return m, cmd
	}
	change, err := view.AdvanceNext()
	if err != nil {
		cmd := m.addToast(components.NewStatusToast(
			fmt.Sprintf("Pedido #%s já foi entregue.", view.Order.ID)))
		return m, cmd
	}
	if m.pendingOrder[change.OrderID] {
		return m, nil
	}
	if m.updater == nil {
		cmd := m.applyAdvance(ref.key, change)
		return m, cmd
	}

	m.pendingOrder[change.OrderID] = true
	updater := m.updater
	key := ref.key
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()
		return OrderAdvancedMsg{
			Change: change,
			Err:    updater.UpdateOrderStatus(ctx, change.OrderID, change.To),
			card:   key,
		}
	}
}

func (m Model) handleOrderAdvanced(msg OrderAdvancedMsg) (tea.Model, tea.Cmd) {
	delete(m.pendingOrder, msg.Change.OrderID)
	if msg.Err != nil {
		notice := errmap.Map(msg.Err)
		m.logger.Warn("order status change failed",
			"order_id", msg.Change.OrderID, "to", string(msg.Change.To), "error", msg.Err)
		text := notice.Toast
		if text == "" {
			text = notice.Message
		}
		cmd := m.addToast(components.NewErrorToast(text))
		return m, cmd
	}
	cmd := m.applyAdvance(msg.card, msg.Change)
	return m, cmd
}

// applyAdvance acknowledges a transition in the transcript. The card that
// offered it is left as drawn; only a new query shows the backend's status.
func (m *Model) applyAdvance(key cardKey, change cards.StatusChange) tea.Cmd {
	if _, err := m.store.ReportOrderStatusChange(change.OrderID, change.To); err != nil {
		m.logger.Error("acknowledge status change", "order_id", change.OrderID, "error", err)
		return nil
	}
	m.advanced[key] = true
	m.logger.Info("order advanced", "order_id", change.OrderID, "from", string(change.From), "to", string(change.To))
	m.refresh(true)
	return m.loadStatsCmd()
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadStatsCmd refreshes the stats header. Nil when the header is hidden or
// there is no catalog.
func (m Model) loadStatsCmd() tea.Cmd {
	if !m.showStats || m.catalog == nil {
		return nil
	}
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()
		stats, err := catalog.Stats(ctx)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// addToast shows a toast and starts the expiry ticker if it is idle.
func (m *Model) addToast(t components.Toast) tea.Cmd {
	m.toasts.Add(t)
	if m.ticking {
		return nil
	}
	m.ticking = true
	return components.ToastTickCmd()
}
