// Package dialogue sends transcripts to the chat-completion service and
// returns the assistant's reply.
package dialogue

import (
	"context"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
)

// Preamble is the fixed behavioral system prompt sent with every exchange.
const Preamble = `You are Talkie, a voice assistant living in a small push-to-talk gadget.
Answer in one or two short sentences; your reply is shown on a tiny screen.
Be direct and concrete. No markdown, no lists.`

// Client wraps a single-model chat exchange: one system message carrying the
// preamble, one user message carrying the transcript.
type Client struct {
	api      openai.Client
	model    openai.ChatModel
	preamble string
}

func NewClient(api openai.Client, model string, preamble string) *Client {
	if model == "" {
		model = openai.ChatModelGPT5Nano
	}
	if preamble == "" {
		preamble = Preamble
	}
	return &Client{api: api, model: openai.ChatModel(model), preamble: preamble}
}

// Converse returns the reply text, or "" when the exchange failed for any
// reason (transport, status, empty choice list). No retries.
func (c *Client) Converse(ctx context.Context, userText string) string {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.preamble),
			openai.UserMessage(userText),
		},
		Model: c.model,
	})
	if err != nil {
		log.Warn("chat completion failed", "err", err)
		return ""
	}
	if len(resp.Choices) == 0 {
		log.Warn("chat completion returned no choices")
		return ""
	}
	return resp.Choices[0].Message.Content
}
