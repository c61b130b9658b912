// Package interaction models the interaction callbacks delivered to the
// webhook and the responses sent back to the platform.
package interaction

import (
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Envelope is the decoded body of an inbound interaction.
type Envelope struct {
	ID            string                    `json:"id"`
	ApplicationID string                    `json:"application_id"`
	Type          discordgo.InteractionType `json:"type"`
	Data          *Data                     `json:"data,omitempty"`
}

// Data describes the invoked application command.
type Data struct {
	ID          string                           `json:"id"`
	CommandType discordgo.ApplicationCommandType `json:"type"`
	Name        string                           `json:"name"`
	TargetID    string                           `json:"target_id,omitempty"`
	Resolved    *Resolved                        `json:"resolved,omitempty"`
}

// Resolved holds entities referenced by the command. Messages is keyed by
// snowflake and only populated for message context-menu invocations.
type Resolved struct {
	Messages map[string]Message `json:"messages"`
}

// Message is the subset of a chat message the bot reads.
type Message struct {
	Content string `json:"content"`
}

// TargetMessage returns the message a context-menu command was invoked on.
// When the platform names a target it must be present in the resolved set;
// otherwise exactly one resolved message is required.
func (d Data) TargetMessage() (Message, bool) {
	if d.Resolved == nil || len(d.Resolved.Messages) == 0 {
		return Message{}, false
	}
	if d.TargetID != "" {
		msg, ok := d.Resolved.Messages[d.TargetID]
		return msg, ok
	}
	if len(d.Resolved.Messages) != 1 {
		return Message{}, false
	}
	for _, msg := range d.Resolved.Messages {
		return msg, true
	}
	return Message{}, false
}

// Decode parses a raw interaction body.
func Decode(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode interaction: %w", err)
	}
	return &env, nil
}
