// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/errmap"
	"github.com/jeranaias/docildos/internal/logging"
	"github.com/jeranaias/docildos/internal/model"
)

// DefaultTimeout bounds a single dispatch.
const DefaultTimeout = 60 * time.Second

var (
	// ErrDispatchPanic wraps a panic raised inside a dispatcher.
	ErrDispatchPanic = errors.New("dispatcher panicked")

	// ErrInvalidStatusChange is returned by ReportOrderStatusChange for a
	// status that cannot be the target of a transition.
	ErrInvalidStatusChange = errors.New("invalid status change")
)

// =============================================================================
// MESSAGES
// =============================================================================

// DispatchedMsg carries a dispatcher result back into the event loop.
type DispatchedMsg struct {
	Gen   uint64
	Reply dispatch.Reply
	Err   error
}

// Outcome describes what Complete did with a DispatchedMsg.
type Outcome struct {
	// Message is the appended assistant message. Zero when Stale.
	Message model.Message
	// Actions are follow-ups suggested with the reply.
	Actions []dispatch.Action
	// Notice is set when the dispatch failed.
	Notice *errmap.Notice
	// Stale reports a completion from before the last Reset; nothing was
	// appended.
	Stale bool
}

// HasToast reports whether the failure should also raise a toast.
func (o Outcome) HasToast() bool {
	return o.Notice != nil && o.Notice.HasToast()
}

// =============================================================================
// STORE
// =============================================================================

// Store owns the transcript and the composing/recording flags. It is driven
// from the event loop only and is not safe for concurrent use; the sole
// suspension point is the command returned by Submit.
type Store struct {
	conv       *model.Conversation
	dispatcher dispatch.Dispatcher
	timeout    time.Duration
	logger     *slog.Logger

	composing bool
	recording bool
	gen       uint64
	cancel    context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout bounds each dispatch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store holding only the greeting.
func New(d dispatch.Dispatcher, opts ...Option) *Store {
	s := &Store{
		conv:       model.NewConversation(),
		dispatcher: d,
		timeout:    DefaultTimeout,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "conversation")
	return s
}

// Submit appends a user message and returns the command that computes the
// reply. It is a no-op returning nil when the trimmed text is empty, a reply
// is pending, or voice capture is active.
func (s *Store) Submit(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" || s.composing || s.recording {
		return nil
	}
	msg := model.NewUserMessage(text)
	if err := s.conv.Append(msg); err != nil {
		s.logger.Error("append user message", "error", err)
		return nil
	}
	s.composing = true
	s.logger.Debug("submitted", "gen", s.gen, "message_id", msg.ID)
	return s.dispatchCmd(msg)
}

// TriggerQuickAction submits the canned text of a quick action. Unknown ids
// are ignored.
func (s *Store) TriggerQuickAction(id string) tea.Cmd {
	qa, ok := dispatch.LookupQuickAction(id)
	if !ok {
		s.logger.Debug("unknown quick action", "id", id)
		return nil
	}
	return s.Submit(qa.Text)
}

func (s *Store) dispatchCmd(msg model.Message) tea.Cmd {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	s.cancel = cancel
	ctx = logging.WithFields(ctx, logging.Fields{MessageID: msg.ID})

	gen, d, text := s.gen, s.dispatcher, msg.Content
	return func() (msg tea.Msg) {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				msg = DispatchedMsg{Gen: gen, Err: fmt.Errorf("%w: %v", ErrDispatchPanic, r)}
			}
		}()
		reply, err := d.Dispatch(ctx, text)
		return DispatchedMsg{Gen: gen, Reply: reply, Err: err}
	}
}

// Complete applies a dispatcher result: it appends the assistant reply, or
// an assistant message describing the failure, and clears composing.
func (s *Store) Complete(msg DispatchedMsg) Outcome {
	if msg.Gen != s.gen || !s.composing {
		s.logger.Debug("dropping stale reply", "gen", msg.Gen, "current", s.gen)
		return Outcome{Stale: true}
	}
	s.composing = false
	s.cancel = nil

	if msg.Err != nil {
		notice := errmap.Map(msg.Err)
		s.logger.Warn("dispatch failed", "kind", notice.Kind.String(), "error", msg.Err)
		reply := model.NewAssistantMessage(notice.Message)
		s.append(reply)
		return Outcome{Message: reply, Notice: &notice}
	}

	for _, rej := range msg.Reply.Rejected {
		s.logger.Warn("attachment rejected", "error", rej)
	}
	reply := model.NewAssistantMessage(msg.Reply.Text, msg.Reply.Cards...)
	s.append(reply)
	return Outcome{Message: reply, Actions: msg.Reply.Actions}
}

// SubmitAndWait runs Submit and its command synchronously. It is meant for
// line-mode front ends that have no event loop. ok is false when Submit was
// a no-op.
func (s *Store) SubmitAndWait(text string) (out Outcome, ok bool) {
	cmd := s.Submit(text)
	if cmd == nil {
		return Outcome{}, false
	}
	msg, _ := cmd().(DispatchedMsg)
	return s.Complete(msg), true
}

// ReportOrderStatusChange appends the acknowledgment for an order card
// transition. Earlier messages are never edited.
func (s *Store) ReportOrderStatusChange(orderID string, status model.OrderStatus) (model.Message, error) {
	phrase := status.AckPhrase()
	if phrase == "" {
		return model.Message{}, fmt.Errorf("%w: %q", ErrInvalidStatusChange, status)
	}
	orderID = strings.TrimLeft(strings.TrimSpace(orderID), "#")
	if orderID == "" {
		return model.Message{}, fmt.Errorf("%w: empty order id", ErrInvalidStatusChange)
	}

	msg := model.NewAssistantMessage(fmt.Sprintf(
		"Perfeito! ✅ Pedido #%s foi marcado %s. Precisa de mais alguma coisa?", orderID, phrase))
	s.append(msg)
	return msg, nil
}

func (s *Store) append(msg model.Message) {
	if err := s.conv.Append(msg); err != nil {
		s.logger.Error("append message", "error", err)
	}
}

// =============================================================================
// FLAGS AND ACCESSORS
// =============================================================================

// SetVoiceCapture sets the recording flag.
func (s *Store) SetVoiceCapture(active bool) {
	s.recording = active
}

// Composing reports whether a reply is pending.
func (s *Store) Composing() bool { return s.composing }

// Recording reports whether voice capture is active.
func (s *Store) Recording() bool { return s.recording }

// Messages returns a copy of the transcript.
func (s *Store) Messages() []model.Message { return s.conv.Messages() }

// Last returns the newest message.
func (s *Store) Last() (model.Message, bool) { return s.conv.Last() }

// Len returns the number of messages.
func (s *Store) Len() int { return s.conv.Len() }

// Reset restores the greeting-only transcript, clears both flags and
// abandons any pending reply.
func (s *Store) Reset() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.composing = false
	s.recording = false
	s.conv.Reset()
}
