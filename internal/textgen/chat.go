package textgen

import (
	"context"
	"sync"
	"time"

	"google.golang.org/genai"
)

const AssistantInstruction = "You are an expert AI HR Assistant. You answer questions about HR policies, best practices, and employee management concisely and professionally. Do not invent company policies; instead, provide general, best-practice advice."

// Chat is a multi-turn conversation. Turns are serialized so the history
// always alternates user and model messages.
type Chat struct {
	client      *Client
	instruction string

	mu      sync.Mutex
	session *genai.Chat
}

func (c *Client) NewChat(systemInstruction string) *Chat {
	return &Chat{client: c, instruction: systemInstruction}
}

func (ch *Chat) config() *genai.GenerateContentConfig {
	if ch.instruction == "" {
		return nil
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(ch.instruction, genai.RoleUser),
	}
}

// SendMessage appends message to the conversation and returns the reply.
// A failed turn leaves the history as it was.
func (ch *Chat) SendMessage(ctx context.Context, message string) string {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	c := ch.client
	if !c.Configured() {
		c.logger.Error("chat turn failed", "turns", ch.turns(), "error", ErrNotConfigured)
		return fallbackChat
	}
	if ch.session == nil {
		session, err := c.genai.Chats.Create(ctx, c.model, ch.config(), nil)
		if err != nil {
			c.logger.Error("failed to start chat", "error", err)
			return fallbackChat
		}
		ch.session = session
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := ch.session.SendMessage(ctx, genai.Part{Text: message})
	if err == nil {
		var reply string
		if reply, err = c.answer(resp, start); err == nil {
			return reply
		}
	}
	c.logger.Error("chat turn failed", "turns", ch.turns(), "error", err)
	return fallbackChat
}

func (ch *Chat) turns() int {
	if ch.session == nil {
		return 0
	}
	return len(ch.session.History(false)) / 2
}

// Turns reports how many exchanges the conversation holds.
func (ch *Chat) Turns() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.turns()
}

func (ch *Chat) Reset() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.session = nil
}
