package services

import "strings"

// Weight split between required and preferred overlap when the opportunity
// lists required skills.
const (
	requiredSkillWeight  = 0.8
	preferredSkillWeight = 0.2

	// neutralStructuredScore is returned when the opportunity declares no
	// skill requirements at all.
	neutralStructuredScore = 0.5
)

// StructuredMatcher scores discrete skill-set overlap. It is a pure
// function of its inputs; no embeddings, no I/O.
type StructuredMatcher interface {
	Score(profileSkills, required, preferred []string) float64
}

type structuredMatcher struct{}

func NewStructuredMatcher() StructuredMatcher {
	return &structuredMatcher{}
}

// Score implements StructuredMatcher. Skill names are compared
// case-insensitively after trimming whitespace.
func (m *structuredMatcher) Score(profileSkills, required, preferred []string) float64 {
	requiredSet := normalizeSkillSet(required)
	preferredSet := normalizeSkillSet(preferred)

	if len(requiredSet) == 0 && len(preferredSet) == 0 {
		return neutralStructuredScore
	}

	profileSet := normalizeSkillSet(profileSkills)

	requiredScore := overlapRatio(profileSet, requiredSet)
	preferredScore := overlapRatio(profileSet, preferredSet)

	if len(requiredSet) > 0 {
		return requiredSkillWeight*requiredScore + preferredSkillWeight*preferredScore
	}

	return preferredScore
}

// overlapRatio returns |profile ∩ wanted| / |wanted|, or 1.0 when nothing
// is wanted.
func overlapRatio(profile, wanted map[string]bool) float64 {
	if len(wanted) == 0 {
		return 1.0
	}

	matched := 0
	for skill := range wanted {
		if profile[skill] {
			matched++
		}
	}

	return float64(matched) / float64(len(wanted))
}

func normalizeSkillSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, skill := range skills {
		name := strings.ToLower(strings.TrimSpace(skill))
		if name != "" {
			set[name] = true
		}
	}
	return set
}
