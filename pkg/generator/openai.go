package generator

import (
	"context"
	"fmt"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"

	"github.com/sashabaranov/go-openai"
)

// OpenAIResponder backs generation with an OpenAI-compatible chat completion
// endpoint. BaseURL makes it work against self-hosted compatible servers too.
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

func NewOpenAIResponder(apiKey, model, baseURL string) *OpenAIResponder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIResponder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (r *OpenAIResponder) Generate(ctx context.Context, history []*entity.Message, requester *entity.User) (*Reply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf("You are a helpful assistant chatting with %s.", requester.FullName),
	})

	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    toOpenAIRole(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &Reply{Content: resp.Choices[0].Message.Content}, nil
}

func toOpenAIRole(role string) string {
	switch role {
	case constant.MessageRoleAssistant:
		return openai.ChatMessageRoleAssistant
	case constant.MessageRoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
