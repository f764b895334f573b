// Package assistant produces the replies appended to a conversation after
// each user message.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/equilibri/internal/models"
)

const (
	ModeEcho   = "echo"
	ModeOpenAI = "openai"
)

// Request is the input of one exchange. History holds the conversation's
// messages before Input, oldest first.
type Request struct {
	ConversationID int64
	History        []models.Message
	Input          string
}

// Responder returns the assistant's reply to a request. Implementations must
// honour ctx cancellation.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
}

// Config selects and parameterizes a Responder.
type Config struct {
	Mode         string
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
}

// New builds the responder for cfg.Mode. An empty mode means echo.
func New(cfg Config) (Responder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", ModeEcho:
		return EchoResponder{}, nil
	case ModeOpenAI:
		return NewOpenAIResponder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown assistant mode %q", cfg.Mode)
	}
}

// EchoResponder answers locally without any network access.
type EchoResponder struct{}

func (EchoResponder) Respond(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "I hear you: " + req.Input, nil
}
