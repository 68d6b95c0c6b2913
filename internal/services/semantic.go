package services

import (
	"github.com/pgvector/pgvector-go"

	"greentalent/matching-engine/internal/config"
	"greentalent/matching-engine/internal/models"
)

// SemanticMatcher scores embedding similarity between a profile and an
// opportunity across three dimensions: skill-to-skill, experience-to-
// experience, and skills-in-context with temporal weighting. Missing
// embeddings never error; the affected dimension degrades to 0.0.
type SemanticMatcher interface {
	Score(profile *models.Profile, opportunity *models.Opportunity) float64
}

type semanticMatcher struct {
	similarity       SimilarityProvider
	skillWeight      float64
	experienceWeight float64
	contextualWeight float64
	temporalDecay    float64
}

func NewSemanticMatcher(similarity SimilarityProvider, cfg config.MatchingConfig) SemanticMatcher {
	return &semanticMatcher{
		similarity:       similarity,
		skillWeight:      cfg.SkillWeight,
		experienceWeight: cfg.ExperienceWeight,
		contextualWeight: cfg.ContextualWeight,
		temporalDecay:    cfg.TemporalDecay,
	}
}

// Score implements SemanticMatcher.
func (m *semanticMatcher) Score(profile *models.Profile, opportunity *models.Opportunity) float64 {
	skillScore := m.skillToSkillScore(profile, opportunity)
	experienceScore := m.experienceScore(profile, opportunity)
	contextualScore := m.contextualScore(profile, opportunity)

	combined := m.skillWeight*skillScore +
		m.experienceWeight*experienceScore +
		m.contextualWeight*contextualScore

	return clampScore(combined)
}

// skillToSkillScore averages, over every opportunity skill with an
// embedding, the best similarity against the profile's embedded skills.
func (m *semanticMatcher) skillToSkillScore(profile *models.Profile, opportunity *models.Opportunity) float64 {
	var profileVectors [][]float32
	for _, skill := range profile.Skills {
		if vec := embeddingValues(skill.Embedding); vec != nil {
			profileVectors = append(profileVectors, vec)
		}
	}
	if len(profileVectors) == 0 {
		return 0.0
	}

	var total float64
	count := 0
	for _, skill := range opportunity.Skills {
		query := embeddingValues(skill.Embedding)
		if query == nil {
			continue
		}
		total += m.similarity.BestMatch(query, profileVectors)
		count++
	}

	if count == 0 {
		return 0.0
	}

	return total / float64(count)
}

// experienceScore applies the same max-then-average strategy to the
// profile's experiences against the opportunity's experience requirements.
func (m *semanticMatcher) experienceScore(profile *models.Profile, opportunity *models.Opportunity) float64 {
	var experienceVectors [][]float32
	for _, exp := range profile.Experiences {
		if vec := embeddingValues(exp.Embedding); vec != nil {
			experienceVectors = append(experienceVectors, vec)
		}
	}
	if len(experienceVectors) == 0 {
		return 0.0
	}

	var total float64
	count := 0
	for _, req := range opportunity.Requirements {
		query := embeddingValues(req.Embedding)
		if query == nil {
			continue
		}
		total += m.similarity.BestMatch(query, experienceVectors)
		count++
	}

	if count == 0 {
		return 0.0
	}

	return total / float64(count)
}

// contextualScore searches each opportunity skill across the profile's
// experience-scoped skill usages. A usage inside a still-current role keeps
// full weight; one inside an ended role is decayed. This rewards skills
// recently exercised in a real role over merely self-declared ones.
func (m *semanticMatcher) contextualScore(profile *models.Profile, opportunity *models.Opportunity) float64 {
	type weightedUsage struct {
		vector []float32
		weight float64
	}

	var usages []weightedUsage
	for _, exp := range profile.Experiences {
		weight := 1.0
		if !exp.IsCurrent() {
			weight = m.temporalDecay
		}
		for _, usage := range exp.Skills {
			if vec := embeddingValues(usage.Embedding); vec != nil {
				usages = append(usages, weightedUsage{vector: vec, weight: weight})
			}
		}
	}
	if len(usages) == 0 {
		return 0.0
	}

	var total float64
	count := 0
	for _, skill := range opportunity.Skills {
		query := embeddingValues(skill.Embedding)
		if query == nil {
			continue
		}

		best := 0.0
		for _, usage := range usages {
			weighted := CosineSimilarity(query, usage.vector) * usage.weight
			if weighted > best {
				best = weighted
			}
		}

		total += best
		count++
	}

	if count == 0 {
		return 0.0
	}

	return total / float64(count)
}

func embeddingValues(vec *pgvector.Vector) []float32 {
	if vec == nil {
		return nil
	}
	values := vec.Slice()
	if len(values) == 0 {
		return nil
	}
	return values
}

func clampScore(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
