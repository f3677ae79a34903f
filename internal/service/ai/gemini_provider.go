package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"diagwa/config"
)

// GeminiProvider runs the same two-step assessment against the Gemini API
// (official SDK).
type GeminiProvider struct{}

func NewGeminiProvider() (*GeminiProvider, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}
	return &GeminiProvider{}, nil
}

func (p *GeminiProvider) Assess(ctx context.Context, profile HealthProfile) (*Assessment, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	diagnosis, err := p.generate(ctx, client, diagnosisSystemPrompt, diagnosisPrompt(profile))
	if err != nil {
		return nil, fmt.Errorf("diagnosis request: %w", err)
	}

	recommendations, err := p.generate(ctx, client, recommendationsSystemPrompt, recommendationsPrompt(diagnosis))
	if err != nil {
		return nil, fmt.Errorf("recommendations request: %w", err)
	}

	return &Assessment{Diagnostico: diagnosis, Recomendaciones: recommendations}, nil
}

func (p *GeminiProvider) generate(ctx context.Context, client *genai.Client, system, user string) (string, error) {
	temp := float32(config.AIDefaultTemperature)
	maxTok := int32(config.AIDefaultMaxTokens)
	modelName := strings.TrimPrefix(config.GeminiDefaultModel, "models/")

	result, err := client.Models.GenerateContent(
		ctx,
		modelName,
		genai.Text(user),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{
					{Text: system},
				},
			},
			Temperature:     &temp,
			MaxOutputTokens: maxTok,
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini SDK Error: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("nil content in candidate")
	}

	var textParts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			textParts = append(textParts, part.Text)
		}
	}

	text := strings.TrimSpace(strings.Join(textParts, " "))
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}
