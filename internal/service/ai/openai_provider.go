package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"diagwa/config"
)

// OpenAIProvider runs the two-step assessment against the OpenAI chat API:
// first a diagnosis from the vitals, then recommendations from the diagnosis.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIProvider() (*OpenAIProvider, error) {
	if config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}
	return &OpenAIProvider{
		client:      openai.NewClient(config.OpenAIAPIKey),
		model:       config.OpenAIDefaultModel,
		temperature: float32(config.AIDefaultTemperature),
		maxTokens:   config.AIDefaultMaxTokens,
	}, nil
}

func (p *OpenAIProvider) Assess(ctx context.Context, profile HealthProfile) (*Assessment, error) {
	diagnosis, err := p.complete(ctx, diagnosisSystemPrompt, diagnosisPrompt(profile))
	if err != nil {
		return nil, fmt.Errorf("diagnosis request: %w", err)
	}

	recommendations, err := p.complete(ctx, recommendationsSystemPrompt, recommendationsPrompt(diagnosis))
	if err != nil {
		return nil, fmt.Errorf("recommendations request: %w", err)
	}

	return &Assessment{Diagnostico: diagnosis, Recomendaciones: recommendations}, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
