// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the label shown above a chat bubble.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "Você"
	case RoleAssistant:
		return "Assistente"
	default:
		return string(r)
	}
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ErrCardsOnUserMessage is returned by Validate when a user turn carries cards.
var ErrCardsOnUserMessage = errors.New("cards are only allowed on assistant messages")

// Message is a single conversation turn. Messages are values: once appended
// to a Conversation they are never edited, only copied out.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Cards are rendered below the text in insertion order.
	Cards []Card `json:"cards,omitempty"`
}

// NewUserMessage creates a user turn. User turns never carry cards.
func NewUserMessage(content string) Message {
	return Message{
		ID:        generateID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant turn with optional cards.
func NewAssistantMessage(content string, cards ...Card) Message {
	msg := Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
	if len(cards) > 0 {
		msg.Cards = make([]Card, len(cards))
		for i, c := range cards {
			msg.Cards[i] = c.Clone()
		}
	}
	return msg
}

// Validate checks the structural invariants of a message.
func (m Message) Validate() error {
	if !m.Role.IsValid() {
		return fmt.Errorf("invalid role %q", m.Role)
	}
	if m.Role != RoleAssistant && len(m.Cards) > 0 {
		return ErrCardsOnUserMessage
	}
	return nil
}

// HasCards reports whether the message has attachments.
func (m Message) HasCards() bool {
	return len(m.Cards) > 0
}

// IsEmpty returns true if the message has no text and no cards.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == "" && len(m.Cards) == 0
}

// Clone returns a deep copy so callers cannot alias card payloads.
func (m Message) Clone() Message {
	out := m
	if m.Cards != nil {
		out.Cards = make([]Card, len(m.Cards))
		for i, c := range m.Cards {
			out.Cards[i] = c.Clone()
		}
	}
	return out
}

// Preview returns the first line of the message truncated to maxLen runes.
func (m Message) Preview(maxLen int) string {
	line, _, _ := strings.Cut(m.Content, "\n")
	runes := []rune(line)
	if maxLen <= 0 || len(runes) <= maxLen {
		return line
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// IDS
// =============================================================================

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

// generateID returns a snowflake id. Snowflake ids are time ordered, so ids
// generated later in the process always compare greater.
func generateID() string {
	idNodeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			// Node 1 is always within range.
			panic(err)
		}
		idNode = node
	})
	return idNode.Generate().String()
}

// CompareIDs orders two message ids numerically. Invalid ids sort first.
func CompareIDs(a, b string) int {
	ia, errA := snowflake.ParseString(a)
	ib, errB := snowflake.ParseString(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}
