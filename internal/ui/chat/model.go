// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/conversation"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/logging"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/components"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

// InputPlaceholder is shown in the empty input.
const InputPlaceholder = "Digite sua mensagem ou use o microfone..."

// RequestTimeout bounds the calls the view makes on its own (stats refresh,
// order status changes). Dispatch is bounded by the store.
const RequestTimeout = 15 * time.Second

// VoiceHooks connects the voice toggle to a capture backend. Either hook
// may be nil; the toggle then only flips the recording state.
type VoiceHooks struct {
	Start func(ctx context.Context) error
	// Stop ends the capture and returns the transcribed text, if any.
	Stop func(ctx context.Context) (string, error)
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme *styles.Theme
	store *conversation.Store
	keys  KeyMap

	// Collaborators
	registry *cards.Registry
	catalog  dispatch.Catalog      // stats header source; nil hides the numbers
	updater  dispatch.OrderUpdater // nil means status changes stay local
	voice    VoiceHooks
	logger   *slog.Logger
	now      func() time.Time

	// Dimensions
	width  int
	height int

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	markdown *glamour.TermRenderer
	toasts   *components.ToastManager
	ticking  bool

	// markdownWidth is the wrap width markdown was built for.
	markdownWidth int

	// Dashboard
	showStats    bool
	useMarkdown  bool
	stats        *model.Stats
	modeLabel    string
	lastActions  []dispatch.Action
	selMsg       int
	selCard      int
	pendingOrder map[string]bool

	// advanced marks cards whose transition was already acknowledged. The
	// card keeps its original status; a fresh query shows the new one.
	advanced map[cardKey]bool
}

// cardKey identifies one card in the transcript.
type cardKey struct {
	msgID string
	card  int
}

// Option configures a Model.
type Option func(*Model)

// WithRegistry sets the card registry used to draw attachments.
func WithRegistry(r *cards.Registry) Option {
	return func(m *Model) { m.registry = r }
}

// WithCatalog sets the source of the stats header.
func WithCatalog(c dispatch.Catalog) Option {
	return func(m *Model) { m.catalog = c }
}

// WithOrderUpdater sends order transitions to a backend before they are
// acknowledged in the transcript.
func WithOrderUpdater(u dispatch.OrderUpdater) Option {
	return func(m *Model) { m.updater = u }
}

// WithVoice sets the voice capture hooks.
func WithVoice(h VoiceHooks) Option {
	return func(m *Model) { m.voice = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStatsHeader toggles the stats header.
func WithStatsHeader(show bool) Option {
	return func(m *Model) { m.showStats = show }
}

// WithMarkdown toggles markdown rendering of assistant text.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) { m.useMarkdown = enabled }
}

// WithModeLabel sets the text on the left of the status bar.
func WithModeLabel(label string) Option {
	return func(m *Model) { m.modeLabel = label }
}

// WithClock overrides time.Now for relative dates.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a chat view over store.
func New(theme *styles.Theme, store *conversation.Store, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = 2000
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = styles.TypingDots.Spinner()

	m := Model{
		theme:        theme,
		store:        store,
		keys:         DefaultKeyMap(),
		registry:     cards.NewRegistry(),
		logger:       logging.Discard(),
		now:          time.Now,
		viewport:     vp,
		input:        ti,
		spinner:      sp,
		toasts:       components.NewToastManager(),
		showStats:    true,
		useMarkdown:  true,
		selMsg:       -1,
		selCard:      -1,
		pendingOrder: make(map[string]bool),
		advanced:     make(map[cardKey]bool),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.logger = logging.Component(m.logger, "chat")
	m.applyStyles()
	return m
}

func (m *Model) applyStyles() {
	if m.theme == nil {
		return
	}
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
	m.spinner.Style = m.theme.TypingIndicator
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Store returns the conversation store behind the view.
func (m Model) Store() *conversation.Store { return m.store }

// Stats returns the last loaded dashboard snapshot.
func (m Model) Stats() (model.Stats, bool) {
	if m.stats == nil {
		return model.Stats{}, false
	}
	return *m.stats, true
}

// Input returns the current input text.
func (m Model) Input() string { return m.input.Value() }

// SetInput replaces the input text.
func (m *Model) SetInput(s string) { m.input.SetValue(s) }

// Toasts returns the visible toasts.
func (m Model) Toasts() []components.Toast { return m.toasts.Toasts() }

// SelectedOrder returns the order card under the cursor as it was drawn.
func (m Model) SelectedOrder() (cards.OrderView, bool) {
	ref, ok := m.selectedRef()
	return ref.view, ok
}

func (m Model) selectedRef() (orderRef, bool) {
	for _, ref := range m.orderCards() {
		if ref.msg == m.selMsg && ref.card == m.selCard {
			return ref, true
		}
	}
	return orderRef{}, false
}

// SetSize sets the dimensions of the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
	m.refresh(false)
}

// Focus focuses the input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus from the input.
func (m *Model) Blur() {
	m.input.Blur()
}

// =============================================================================
// ORDER CARD SELECTION
// =============================================================================

type orderRef struct {
	msg  int
	card int
	key  cardKey
	view cards.OrderView
}

// orderCards lists the resolvable order cards in transcript order.
func (m Model) orderCards() []orderRef {
	var refs []orderRef
	for i, msg := range m.store.Messages() {
		for j, c := range msg.Cards {
			if c.Type != model.CardOrder {
				continue
			}
			d, err := m.registry.Resolve(c)
			if err != nil {
				continue
			}
			refs = append(refs, orderRef{
				msg:  i,
				card: j,
				key:  cardKey{msgID: msg.ID, card: j},
				view: d.(cards.OrderView),
			})
		}
	}
	return refs
}

// moveSelection steps through order cards. With nothing selected either
// direction starts at the newest card.
func (m *Model) moveSelection(delta int) {
	refs := m.orderCards()
	if len(refs) == 0 {
		m.selMsg, m.selCard = -1, -1
		return
	}
	idx := -1
	for i, ref := range refs {
		if ref.msg == m.selMsg && ref.card == m.selCard {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = len(refs) - 1
	} else {
		idx = min(max(idx+delta, 0), len(refs)-1)
	}
	m.selMsg, m.selCard = refs[idx].msg, refs[idx].card
}

func (m *Model) clearSelection() {
	m.selMsg, m.selCard = -1, -1
}
