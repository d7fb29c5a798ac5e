// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output support for scripting.
//
// Every command that accepts --json writes exactly one JSONResponse to
// stdout; human-readable notes go to stderr.
package cli

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/model"
)

// JSONResponse is the response envelope for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data any `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Details describes a structured error; omitted on success.
	Details map[string]any `json:"details,omitempty"`

	// Timestamp is the RFC 3339 time the response was generated
	Timestamp string `json:"timestamp"`

	Command string `json:"command,omitempty"`
}

// now is swapped in tests.
var now = time.Now

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Details:   errorDetails(err),
		Timestamp: now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response to w, indented.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(r)
}

// Print outputs the JSON response to stdout.
func (r *JSONResponse) Print() error {
	return r.Write(os.Stdout)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// VersionData is the data for the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// CardData is one attachment of an assistant reply. Data is the raw payload
// as the dispatcher produced it.
type CardData struct {
	Type model.CardType  `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ActionData is a follow-up suggested with a reply.
type ActionData struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// AskData is the data for the ask command.
type AskData struct {
	Question  string       `json:"question"`
	Response  string       `json:"response"`
	Cards     []CardData   `json:"cards"`
	Actions   []ActionData `json:"actions,omitempty"`
	Mode      string       `json:"mode"`
	SessionID string       `json:"session_id,omitempty"`
	MessageID string       `json:"message_id"`
	Duration  string       `json:"duration"`
}

// newAskData builds AskData from the assistant message and its follow-ups.
func newAskData(question string, msg model.Message, actions []dispatch.Action) AskData {
	data := AskData{
		Question:  question,
		Response:  msg.Content,
		Cards:     make([]CardData, 0, len(msg.Cards)),
		MessageID: msg.ID,
	}
	for _, c := range msg.Cards {
		data.Cards = append(data.Cards, CardData{Type: c.Type, Data: c.Data})
	}
	for _, a := range actions {
		data.Actions = append(data.Actions, ActionData{ID: a.ID, Label: a.Label})
	}
	return data
}

// ConfigData is the data for `config show`.
type ConfigData struct {
	Path   string         `json:"path"`
	Values map[string]any `json:"values"`
}
