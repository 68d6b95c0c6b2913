package models

import "time"

// EvaluateRequest queues a batch evaluation through the worker.
type EvaluateRequest struct {
	Perspective string  `json:"perspective" validate:"required"`
	SubjectID   string  `json:"subject_id" validate:"required,uuid"`
	Threshold   float64 `json:"threshold,omitempty"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// MatchEntry is one ranked counterpart in an evaluation set summary.
type MatchEntry struct {
	Rank            int      `json:"rank"`
	CounterpartID   string   `json:"counterpart_id"`
	CounterpartName string   `json:"counterpart_display_name"`
	FinalScore      float64  `json:"final_score"`
	StructuredScore float64  `json:"structured_score"`
	SemanticScore   float64  `json:"semantic_score"`
	LLMScore        *float64 `json:"llm_score"`
	LLMReasoning    *string  `json:"llm_reasoning"`
	WasLLMJudged    bool     `json:"was_llm_judged"`
	JudgeStatus     string   `json:"judge_status"`
}

// EvaluationSetSummary is the response shape for a completed (or in-flight)
// batch run.
type EvaluationSetSummary struct {
	ID                string       `json:"id"`
	Perspective       string       `json:"perspective"`
	SubjectID         string       `json:"subject_id"`
	SubjectName       string       `json:"subject_display_name,omitempty"`
	Status            string       `json:"status"`
	TotalEvaluated    int          `json:"total_evaluated"`
	LLMJudgeThreshold float64      `json:"llm_judge_threshold"`
	LLMJudgedCount    int          `json:"llm_judged_count"`
	IsComplete        bool         `json:"is_complete"`
	CreatedAt         time.Time    `json:"created_at"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
	TopMatches        []MatchEntry `json:"top_matches"`
}

// PairRequest scores a single profile/opportunity pair outside batch ranking.
type PairRequest struct {
	ProfileID     string `json:"profile_id" validate:"required,uuid"`
	OpportunityID string `json:"opportunity_id" validate:"required,uuid"`
}

// PairBreakdown is the detailed score decomposition for one pair. The judge
// always runs for single-pair scoring, so LLMScore is always populated.
type PairBreakdown struct {
	ProfileID       string  `json:"profile_id"`
	ProfileName     string  `json:"profile_display_name"`
	OpportunityID   string  `json:"opportunity_id"`
	OpportunityName string  `json:"opportunity_display_name"`
	StructuredScore float64 `json:"structured_score"`
	SemanticScore   float64 `json:"semantic_score"`
	CombinedScore   float64 `json:"combined_score"`
	LLMScore        float64 `json:"llm_score"`
	LLMReasoning    string  `json:"llm_reasoning"`
	JudgeStatus     string  `json:"judge_status"`
	FinalScore      float64 `json:"final_score"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	ProfileID    string `json:"profile_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	PageCount    int    `json:"page_count"`
}

// SimilarProfileEntry is one hit from the vector-index discovery search.
type SimilarProfileEntry struct {
	ProfileID string  `json:"profile_id"`
	SkillName string  `json:"skill_name"`
	Score     float32 `json:"score"`
}
