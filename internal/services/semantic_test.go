package services

import (
	"math"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"

	"greentalent/matching-engine/internal/config"
	"greentalent/matching-engine/internal/models"
)

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		StructuredWeight:   0.6,
		SemanticWeight:     0.4,
		SkillWeight:        0.4,
		ExperienceWeight:   0.3,
		ContextualWeight:   0.3,
		TemporalDecay:      0.7,
		JudgeThreshold:     0.7,
		JudgeFallbackScore: 0.7,
	}
}

func vec(values ...float32) *pgvector.Vector {
	v := pgvector.NewVector(values)
	return &v
}

func newSemanticMatcher() SemanticMatcher {
	return NewSemanticMatcher(NewCosineSimilarityProvider(), testMatchingConfig())
}

func TestSemanticScoreNoEmbeddings(t *testing.T) {
	matcher := newSemanticMatcher()

	profile := &models.Profile{
		Skills: []models.ProfileSkill{{Name: "Python"}},
	}
	opportunity := &models.Opportunity{
		Skills: []models.OpportunitySkill{{Name: "Python"}},
	}

	if got := matcher.Score(profile, opportunity); got != 0.0 {
		t.Errorf("Score() without embeddings = %v, want 0.0", got)
	}
}

func TestSemanticSkillToSkill(t *testing.T) {
	matcher := newSemanticMatcher()

	profile := &models.Profile{
		Skills: []models.ProfileSkill{
			{Name: "Carbon Accounting", Embedding: vec(1, 0)},
			{Name: "Reporting", Embedding: vec(0, 1)},
		},
	}
	opportunity := &models.Opportunity{
		Skills: []models.OpportunitySkill{
			{Name: "GHG Accounting", Embedding: vec(1, 0)},
		},
	}

	// Perfect skill alignment, nothing else embedded: 0.4 * 1.0
	got := matcher.Score(profile, opportunity)
	if math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Score() = %v, want 0.4", got)
	}
}

func TestSemanticExperienceRequirement(t *testing.T) {
	matcher := newSemanticMatcher()

	profile := &models.Profile{
		Experiences: []models.Experience{
			{Title: "Sustainability Lead", Embedding: vec(0, 1)},
		},
	}
	opportunity := &models.Opportunity{
		Requirements: []models.OpportunityRequirement{
			{Text: "5 years leading sustainability programs", Embedding: vec(0, 1)},
		},
	}

	got := matcher.Score(profile, opportunity)
	if math.Abs(got-0.3) > 1e-9 {
		t.Errorf("Score() = %v, want 0.3", got)
	}
}

func TestSemanticContextualTemporalWeight(t *testing.T) {
	ended := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate *time.Time
		want    float64
	}{
		{
			name:    "current role keeps full weight",
			endDate: nil,
			want:    0.3 * 1.0,
		},
		{
			name:    "ended role is decayed",
			endDate: &ended,
			want:    0.3 * 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := newSemanticMatcher()

			profile := &models.Profile{
				Experiences: []models.Experience{
					{
						Title:   "ESG Analyst",
						EndDate: tt.endDate,
						Skills: []models.ExperienceSkill{
							{Name: "Scope 3 Analysis", Embedding: vec(1, 0)},
						},
					},
				},
			}
			opportunity := &models.Opportunity{
				Skills: []models.OpportunitySkill{
					{Name: "Scope 3 Analysis", Embedding: vec(1, 0)},
				},
			}

			got := matcher.Score(profile, opportunity)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSemanticContextualPicksBestWeightedUsage(t *testing.T) {
	matcher := newSemanticMatcher()
	ended := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	// The ended role has a perfect usage match (weighted 0.7); the current
	// role has a weaker one (cos 0.6 * 1.0 = 0.6). The decayed perfect
	// match still wins.
	profile := &models.Profile{
		Experiences: []models.Experience{
			{
				Title:   "Old Role",
				EndDate: &ended,
				Skills: []models.ExperienceSkill{
					{Name: "LCA", Embedding: vec(1, 0)},
				},
			},
			{
				Title: "Current Role",
				Skills: []models.ExperienceSkill{
					{Name: "LCA-adjacent", Embedding: vec(0.6, 0.8)},
				},
			},
		},
	}
	opportunity := &models.Opportunity{
		Skills: []models.OpportunitySkill{
			{Name: "LCA", Embedding: vec(1, 0)},
		},
	}

	got := matcher.Score(profile, opportunity)
	want := 0.3 * 0.7
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestSemanticScoreClamped(t *testing.T) {
	matcher := newSemanticMatcher()

	profile := &models.Profile{
		Skills: []models.ProfileSkill{{Name: "A", Embedding: vec(1, 0)}},
		Experiences: []models.Experience{
			{
				Title:     "Role",
				Embedding: vec(1, 0),
				Skills:    []models.ExperienceSkill{{Name: "A", Embedding: vec(1, 0)}},
			},
		},
	}
	opportunity := &models.Opportunity{
		Skills:       []models.OpportunitySkill{{Name: "A", Embedding: vec(1, 0)}},
		Requirements: []models.OpportunityRequirement{{Text: "r", Embedding: vec(1, 0)}},
	}

	got := matcher.Score(profile, opportunity)
	if got < 0.0 || got > 1.0 {
		t.Errorf("Score() = %v, want within [0,1]", got)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Score() with perfect alignment = %v, want 1.0", got)
	}
}
