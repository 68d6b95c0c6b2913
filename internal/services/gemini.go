package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(apiKey string) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  "gemini-2.5-flash",
		embedModel: "text-embedding-004",
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	text = truncateText(text, 40000)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}

		lastErr = err

		// Check if context is cancelled
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
