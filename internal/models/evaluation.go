package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Perspective selects which side of the match the ranking is run for.
type Perspective string

const (
	// PerspectiveEmployer ranks candidate profiles for an opportunity.
	PerspectiveEmployer Perspective = "employer_seeking_candidates"
	// PerspectiveCandidate ranks opportunities for a profile.
	PerspectiveCandidate Perspective = "candidate_seeking_opportunities"
)

type EvaluationSetStatus string

const (
	SetStatusCreated  EvaluationSetStatus = "created"
	SetStatusScoring  EvaluationSetStatus = "scoring"
	SetStatusJudging  EvaluationSetStatus = "judging"
	SetStatusComplete EvaluationSetStatus = "complete"
	SetStatusFailed   EvaluationSetStatus = "failed"
)

// JudgeStatus records what happened at the LLM judge gate for one pair.
type JudgeStatus string

const (
	// JudgeSkipped means the pair never crossed the gate threshold.
	JudgeSkipped JudgeStatus = "skipped"
	// JudgeScored means the judge call succeeded and its score is final.
	JudgeScored JudgeStatus = "judged"
	// JudgeFallback means the judge call failed and the fallback score was used.
	JudgeFallback JudgeStatus = "fallback"
)

// Component score keys stored in Evaluation.ComponentScores.
const (
	ComponentStructured = "structured"
	ComponentSemantic   = "semantic"
	ComponentLLMJudge   = "llm_judge"
)

// EvaluationSet is one batch run of the ranking pipeline. Exactly one of
// OpportunityID/ProfileID is set, matching Perspective.
type EvaluationSet struct {
	ID                uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Perspective       Perspective         `gorm:"type:text;not null" json:"perspective"`
	OpportunityID     *uuid.UUID          `gorm:"type:uuid;index" json:"opportunity_id,omitempty"`
	ProfileID         *uuid.UUID          `gorm:"type:uuid;index" json:"profile_id,omitempty"`
	Status            EvaluationSetStatus `gorm:"type:text;not null;default:'created'" json:"status"`
	TotalEvaluated    int                 `gorm:"not null;default:0" json:"total_evaluated"`
	LLMJudgeThreshold float64             `gorm:"type:decimal(3,2);not null" json:"llm_judge_threshold"`
	LLMJudgedCount    int                 `gorm:"not null;default:0" json:"llm_judged_count"`
	IsComplete        bool                `gorm:"not null;default:false" json:"is_complete"`
	CreatedAt         time.Time           `gorm:"type:timestamp;default:now()" json:"created_at"`
	CompletedAt       *time.Time          `gorm:"type:timestamp" json:"completed_at,omitempty"`

	// Relations
	Evaluations []Evaluation `gorm:"foreignKey:EvaluationSetID" json:"-"`
}

func (EvaluationSet) TableName() string {
	return "evaluation_sets"
}

// SubjectID returns whichever side of the match the set was run for.
func (s *EvaluationSet) SubjectID() uuid.UUID {
	if s.Perspective == PerspectiveEmployer && s.OpportunityID != nil {
		return *s.OpportunityID
	}
	if s.ProfileID != nil {
		return *s.ProfileID
	}
	return uuid.Nil
}

// Evaluation is one scored profile/opportunity pair inside an EvaluationSet.
// (set, profile, opportunity) is unique; RankInSet is contiguous 1..N ordered
// by FinalScore descending.
type Evaluation struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EvaluationSetID uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_set_pair" json:"evaluation_set_id"`
	ProfileID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_set_pair" json:"profile_id"`
	OpportunityID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_set_pair" json:"opportunity_id"`
	FinalScore      float64           `gorm:"type:decimal(4,3);not null" json:"final_score"`
	RankInSet       int               `gorm:"not null" json:"rank_in_set"`
	ComponentScores datatypes.JSONMap `gorm:"type:jsonb" json:"component_scores"`
	WasLLMJudged    bool              `gorm:"not null;default:false" json:"was_llm_judged"`
	JudgeStatus     JudgeStatus       `gorm:"type:text;not null;default:'skipped'" json:"judge_status"`
	LLMReasoning    *string           `gorm:"type:text" json:"llm_reasoning,omitempty"`
	CreatedAt       time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// ComponentScore reads one component score out of the JSON map. The zero
// value comes back for components that were never stored.
func (e *Evaluation) ComponentScore(key string) float64 {
	if e.ComponentScores == nil {
		return 0
	}
	switch v := e.ComponentScores[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	default:
		return 0
	}
}
