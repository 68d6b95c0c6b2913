package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"greentalent/matching-engine/internal/models"
)

// JudgeResult is the structured outcome of one LLM judge call.
type JudgeResult struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// JudgeProvider produces a natural-language fit judgement for one
// profile/opportunity pair. Any error is the caller's signal to substitute
// the fallback score; the provider itself never invents one.
type JudgeProvider interface {
	Judge(ctx context.Context, profileSummary, opportunitySummary string, perspective models.Perspective) (*JudgeResult, error)
}

type geminiJudge struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewGeminiJudge(geminiService GeminiService, maxRetries int) JudgeProvider {
	return &geminiJudge{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// Judge implements JudgeProvider.
func (j *geminiJudge) Judge(ctx context.Context, profileSummary, opportunitySummary string, perspective models.Perspective) (*JudgeResult, error) {
	prompt := j.promptBuilder.BuildJudgePrompt(profileSummary, opportunitySummary, perspective)

	response, err := j.geminiService.GenerateTextWithRetry(ctx, prompt, 0.3, j.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate judgement: %w", err)
	}

	var result JudgeResult
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse judgement response: %w", err)
	}

	if result.Score < 0.0 || result.Score > 1.0 {
		return nil, fmt.Errorf("judge score %.3f outside [0,1]", result.Score)
	}

	return &result, nil
}

func parseJSONResponse(response string, target interface{}) error {
	// Try to extract JSON from response (LLM might wrap it in markdown)
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w\nResponse: %s", err, response)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object or array boundaries
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	// Determine if we have an object or array
	if startObj != -1 && endObj != -1 && endObj > startObj {
		// We have a JSON object
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		// We have a JSON array
		return text[startArr : endArr+1]
	}

	return text
}
