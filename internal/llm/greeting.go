package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/job-search-agent/internal/prompts"
)

// DefaultGreeting is returned whenever the LLM cannot produce one. The chat
// frontend must always receive an opening message.
const DefaultGreeting = "Hello! I'm your AI Job Search Assistant. What roles are you looking for and in which country?"

// Greeting asks the model for an opening chat message under the configured
// system prompt. It never fails; errors degrade to DefaultGreeting.
func Greeting(ctx context.Context, client Client, systemPrompt string, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}
	if systemPrompt == "" {
		systemPrompt = "You are a helpful job search assistant."
	}

	request := prompts.MustGet("matching.json", "greeting-request")
	message, err := client.GenerateContent(ctx, systemPrompt, request)
	if err != nil {
		log.Warn("greeting generation failed, using canned message", zap.Error(err))
		return DefaultGreeting
	}
	if message == "" {
		return DefaultGreeting
	}
	return message
}
