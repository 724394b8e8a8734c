// Package chat produces short conversational replies, preferring a
// remote model and falling back to canned rules.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"
)

// Completer is the optional remote language-model call.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Responder answers free-form prompts. With no remote completer, or
// on any remote failure, it falls through to the local rules; callers
// always get some reply.
type Responder struct {
	remote Completer
}

func NewResponder(remote Completer) *Responder {
	return &Responder{remote: remote}
}

func (r *Responder) Reply(ctx context.Context, prompt string) string {
	if r.remote != nil {
		answer, err := r.remote.Complete(ctx, prompt)
		if err == nil && strings.TrimSpace(answer) != "" {
			return strings.TrimSpace(answer)
		}
		if err != nil {
			log.Warn("Remote chat failed, using local rules", "err", err)
		}
	}
	return localReply(prompt)
}

// localRules are checked in order; the first substring hit wins, so
// "how are you" must stay ahead of the bare "how" help rule.
var localRules = []struct {
	keywords []string
	reply    string
}{
	{[]string{"how are you"}, "I'm fine, thanks. I'm here to help you with coding, apps, and questions."},
	{[]string{"your name"}, "My name is VoiceKit."},
	{[]string{"joke", "funny"}, "Why do programmers prefer dark mode? Because light attracts bugs!"},
	{[]string{"help", "how"}, "Tell me what you want: open an app, search something, or chat with me."},
}

const deflection = "That's interesting. I can search Wikipedia or Google for detailed answers."

func localReply(prompt string) string {
	lp := strings.ToLower(prompt)
	for _, rule := range localRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lp, kw) {
				return rule.reply
			}
		}
	}
	return deflection
}

const (
	remoteTimeout  = 20 * time.Second
	maxReplyTokens = 150
)

const systemPrompt = "You are VoiceKit, a desktop voice assistant. " +
	"Answer in one or two short spoken-style sentences."

// OpenAICompleter asks a chat model for a reply with a bounded token
// budget.
type OpenAICompleter struct {
	client openai.Client
}

func NewOpenAICompleter(client openai.Client) *OpenAICompleter {
	return &OpenAICompleter{client: client}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:               openai.ChatModelGPT5Nano,
		MaxCompletionTokens: openai.Int(maxReplyTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
