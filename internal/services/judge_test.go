package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"greentalent/matching-engine/internal/models"
)

// fakeGemini returns a canned text response and records the last prompt.
type fakeGemini struct {
	response   string
	err        error
	lastPrompt string
}

func (g *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (g *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return g.GenerateText(ctx, prompt, temperature)
}

func TestJudgeParsesResponse(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		wantScore     float64
		wantReasoning string
	}{
		{
			name:          "plain json",
			response:      `{"score": 0.85, "reasoning": "strong sustainability background"}`,
			wantScore:     0.85,
			wantReasoning: "strong sustainability background",
		},
		{
			name:          "markdown wrapped",
			response:      "```json\n{\"score\": 0.6, \"reasoning\": \"partial overlap\"}\n```",
			wantScore:     0.6,
			wantReasoning: "partial overlap",
		},
		{
			name:          "json amid prose",
			response:      "Here is my assessment:\n{\"score\": 0.3, \"reasoning\": \"weak fit\"}\nLet me know if you need more.",
			wantScore:     0.3,
			wantReasoning: "weak fit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gemini := &fakeGemini{response: tt.response}
			judge := NewGeminiJudge(gemini, 3)

			result, err := judge.Judge(context.Background(), "profile", "opportunity", models.PerspectiveEmployer)
			if err != nil {
				t.Fatalf("Judge() error = %v", err)
			}

			if math.Abs(result.Score-tt.wantScore) > 1e-9 {
				t.Errorf("Score = %v, want %v", result.Score, tt.wantScore)
			}
			if result.Reasoning != tt.wantReasoning {
				t.Errorf("Reasoning = %q, want %q", result.Reasoning, tt.wantReasoning)
			}
		})
	}
}

func TestJudgeRejectsOutOfRangeScore(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "above one", response: `{"score": 1.5, "reasoning": "x"}`},
		{name: "negative", response: `{"score": -0.2, "reasoning": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge := NewGeminiJudge(&fakeGemini{response: tt.response}, 3)

			if _, err := judge.Judge(context.Background(), "p", "o", models.PerspectiveEmployer); err == nil {
				t.Error("Judge() error = nil, want out-of-range error")
			}
		})
	}
}

func TestJudgeRejectsMalformedResponse(t *testing.T) {
	judge := NewGeminiJudge(&fakeGemini{response: "I cannot evaluate this pair."}, 3)

	if _, err := judge.Judge(context.Background(), "p", "o", models.PerspectiveEmployer); err == nil {
		t.Error("Judge() error = nil, want parse error")
	}
}

func TestJudgePropagatesGenerationError(t *testing.T) {
	genErr := errors.New("quota exceeded")
	judge := NewGeminiJudge(&fakeGemini{err: genErr}, 3)

	_, err := judge.Judge(context.Background(), "p", "o", models.PerspectiveEmployer)
	if !errors.Is(err, genErr) {
		t.Errorf("Judge() error = %v, want wrapped %v", err, genErr)
	}
}

func TestJudgePromptCarriesSummaries(t *testing.T) {
	gemini := &fakeGemini{response: `{"score": 0.5, "reasoning": "ok"}`}
	judge := NewGeminiJudge(gemini, 1)

	if _, err := judge.Judge(context.Background(), "PROFILE-SUMMARY", "OPPORTUNITY-SUMMARY", models.PerspectiveCandidate); err != nil {
		t.Fatalf("Judge() error = %v", err)
	}

	if !strings.Contains(gemini.lastPrompt, "PROFILE-SUMMARY") || !strings.Contains(gemini.lastPrompt, "OPPORTUNITY-SUMMARY") {
		t.Errorf("prompt missing summaries: %q", gemini.lastPrompt)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "markdown fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  "\n{\"a\": 1}\n",
		},
		{
			name:  "array",
			input: `noise [1, 2] trailing`,
			want:  `[1, 2]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if strings.TrimSpace(got) != strings.TrimSpace(tt.want) {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
