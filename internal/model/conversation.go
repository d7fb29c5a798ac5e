// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// Greeting is the assistant turn every conversation starts with.
const Greeting = "Olá! 👋 Sou sua assistente de confeitaria. Posso ajudar com pedidos, " +
	"agenda de entregas, receitas, estoque e muito mais. O que você precisa hoje?"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an append-only transcript. The zero value is not ready;
// use NewConversation.
type Conversation struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	messages []Message
}

// NewConversation creates a conversation holding only the greeting.
func NewConversation() *Conversation {
	c := &Conversation{}
	c.Reset()
	return c
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a copy of msg to the end of the transcript.
func (c *Conversation) Append(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	c.messages = append(c.messages, msg.Clone())
	c.UpdatedAt = time.Now()
	return nil
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Clone()
	}
	return out
}

// At returns a copy of message i.
func (c *Conversation) At(i int) (Message, bool) {
	if i < 0 || i >= len(c.messages) {
		return Message{}, false
	}
	return c.messages[i].Clone(), true
}

// Last returns the last message.
func (c *Conversation) Last() (Message, bool) {
	return c.At(len(c.messages) - 1)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Reset drops every message and starts over from the greeting.
func (c *Conversation) Reset() {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.messages = []Message{NewAssistantMessage(Greeting)}
}
