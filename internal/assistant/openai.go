package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/equilibri/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

const defaultSystemPrompt = "You are Equilibri, a calm and supportive conversation partner. Answer briefly."

// OpenAIResponder talks to an OpenAI-compatible chat completion endpoint.
type OpenAIResponder struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

func NewOpenAIResponder(cfg Config) *OpenAIResponder {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIResponder{
		client:       openai.NewClientWithConfig(config),
		model:        model,
		systemPrompt: prompt,
	}
}

func (r *OpenAIResponder) Respond(ctx context.Context, req Request) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: r.buildMessages(req),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (r *OpenAIResponder) buildMessages(req Request) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: r.systemPrompt})
	for _, m := range req.History {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Input})
	return msgs
}
