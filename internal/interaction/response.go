package interaction

import "github.com/bwmarrin/discordgo"

// Response is the wire shape returned to the platform.
type Response struct {
	Type discordgo.InteractionResponseType `json:"type"`
	Data *ResponseData                     `json:"data,omitempty"`
}

// ResponseData carries a channel message. Every field is always serialized.
type ResponseData struct {
	TTS             bool                      `json:"tts"`
	Content         string                    `json:"content"`
	Flags           discordgo.MessageFlags    `json:"flags"`
	Embeds          []*discordgo.MessageEmbed `json:"embeds"`
	AllowedMentions AllowedMentions           `json:"allowed_mentions"`
}

// AllowedMentions restricts which mentions in Content may ping.
type AllowedMentions struct {
	Parse []string `json:"parse"`
}

// ErrorResponse is the JSON body for non-interaction replies.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotImplemented is the fallback body for interactions the bot does not handle.
var NotImplemented = ErrorResponse{Error: "Not implemented."}

// Pong acknowledges a handshake ping.
func Pong() Response {
	return Response{Type: discordgo.InteractionResponsePong}
}

// ChannelMessage builds an immediate message reply. Private replies are
// only visible to the invoking user.
func ChannelMessage(content string, private bool) Response {
	var flags discordgo.MessageFlags
	if private {
		flags = discordgo.MessageFlagsEphemeral
	}
	return Response{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &ResponseData{
			TTS:             false,
			Content:         content,
			Flags:           flags,
			Embeds:          []*discordgo.MessageEmbed{},
			AllowedMentions: AllowedMentions{Parse: []string{}},
		},
	}
}
