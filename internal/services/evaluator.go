package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"greentalent/matching-engine/internal/config"
	"greentalent/matching-engine/internal/models"
	"greentalent/matching-engine/internal/repositories"
)

// EvaluatorService drives the full ranking pipeline: enumerate the
// counterpart pool, score every pair, rank, persist, then enrich the
// top-scoring rows through the LLM judge gate.
type EvaluatorService interface {
	EvaluateCandidatesForOpportunity(ctx context.Context, opportunityID uuid.UUID, threshold float64, limit int) (*models.EvaluationSetSummary, error)
	EvaluateOpportunitiesForProfile(ctx context.Context, profileID uuid.UUID, threshold float64, limit int) (*models.EvaluationSetSummary, error)
	EvaluatePair(ctx context.Context, profileID, opportunityID uuid.UUID) (*models.PairBreakdown, error)
	// RunQueuedSet executes the pipeline for a set created through the
	// asynchronous wrapper.
	RunQueuedSet(ctx context.Context, setID uuid.UUID) error
	// BuildSummary assembles the wire-contract summary for an existing set.
	BuildSummary(set *models.EvaluationSet, limit int) (*models.EvaluationSetSummary, error)
}

type evaluatorService struct {
	profileRepo     repositories.ProfileRepository
	opportunityRepo repositories.OpportunityRepository
	evalRepo        repositories.EvaluationRepository
	structured      StructuredMatcher
	semantic        SemanticMatcher
	judge           JudgeProvider
	promptBuilder   *PromptBuilder
	matching        config.MatchingConfig
}

func NewEvaluatorService(
	profileRepo repositories.ProfileRepository,
	opportunityRepo repositories.OpportunityRepository,
	evalRepo repositories.EvaluationRepository,
	structured StructuredMatcher,
	semantic SemanticMatcher,
	judge JudgeProvider,
	matching config.MatchingConfig,
) EvaluatorService {
	return &evaluatorService{
		profileRepo:     profileRepo,
		opportunityRepo: opportunityRepo,
		evalRepo:        evalRepo,
		structured:      structured,
		semantic:        semantic,
		judge:           judge,
		promptBuilder:   NewPromptBuilder(),
		matching:        matching,
	}
}

// scoredPair is one candidate pair in enumeration order, before ranking.
type scoredPair struct {
	profile     *models.Profile
	opportunity *models.Opportunity
	structured  float64
	semantic    float64
	combined    float64
}

// EvaluateCandidatesForOpportunity implements EvaluatorService.
func (e *evaluatorService) EvaluateCandidatesForOpportunity(ctx context.Context, opportunityID uuid.UUID, threshold float64, limit int) (*models.EvaluationSetSummary, error) {
	if _, err := e.opportunityRepo.FindByID(opportunityID); err != nil {
		return nil, err
	}

	set := e.newSet(models.PerspectiveEmployer, nil, &opportunityID, threshold)
	if err := e.evalRepo.CreateSet(set); err != nil {
		return nil, err
	}

	if err := e.runSet(ctx, set); err != nil {
		return nil, err
	}

	return e.BuildSummary(set, limit)
}

// EvaluateOpportunitiesForProfile implements EvaluatorService.
func (e *evaluatorService) EvaluateOpportunitiesForProfile(ctx context.Context, profileID uuid.UUID, threshold float64, limit int) (*models.EvaluationSetSummary, error) {
	if _, err := e.profileRepo.FindByID(profileID); err != nil {
		return nil, err
	}

	set := e.newSet(models.PerspectiveCandidate, &profileID, nil, threshold)
	if err := e.evalRepo.CreateSet(set); err != nil {
		return nil, err
	}

	if err := e.runSet(ctx, set); err != nil {
		return nil, err
	}

	return e.BuildSummary(set, limit)
}

// EvaluatePair implements EvaluatorService. Single-pair scoring bypasses
// batch ranking, computes every dimension, and always calls the judge.
// Nothing is persisted.
func (e *evaluatorService) EvaluatePair(ctx context.Context, profileID, opportunityID uuid.UUID) (*models.PairBreakdown, error) {
	profile, err := e.profileRepo.FindByID(profileID)
	if err != nil {
		return nil, err
	}

	opportunity, err := e.opportunityRepo.FindByID(opportunityID)
	if err != nil {
		return nil, err
	}

	pair := e.scorePair(profile, opportunity)

	result, judgeStatus := e.judgePair(ctx, profile, opportunity, models.PerspectiveEmployer)

	return &models.PairBreakdown{
		ProfileID:       profile.ID.String(),
		ProfileName:     profile.FullName,
		OpportunityID:   opportunity.ID.String(),
		OpportunityName: opportunity.DisplayName(),
		StructuredScore: pair.structured,
		SemanticScore:   pair.semantic,
		CombinedScore:   pair.combined,
		LLMScore:        result.Score,
		LLMReasoning:    result.Reasoning,
		JudgeStatus:     string(judgeStatus),
		FinalScore:      result.Score,
	}, nil
}

// RunQueuedSet implements EvaluatorService. The conditional claim makes the
// created-to-scoring transition atomic: when the poller and a direct enqueue
// race on the same set, exactly one caller runs it and the other walks away,
// so the pair uniqueness constraint is never hit by a double run.
func (e *evaluatorService) RunQueuedSet(ctx context.Context, setID uuid.UUID) error {
	claimed, err := e.evalRepo.ClaimSet(setID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Printf("⚠️  Evaluation set %s already claimed or finished, skipping\n", setID)
		return nil
	}

	set, err := e.evalRepo.FindSetByID(setID)
	if err != nil {
		return err
	}

	if err := e.runSet(ctx, set); err != nil {
		// A failed queued set must leave the pending pool for good, or the
		// poller re-enqueues it every tick.
		if markErr := e.evalRepo.UpdateSetStatus(setID, models.SetStatusFailed); markErr != nil {
			log.Printf("❌ Failed to mark evaluation set %s as failed: %v\n", setID, markErr)
		}
		return err
	}

	return nil
}

// newSet builds an EvaluationSet header for a synchronous run. Exactly one
// of profileID and opportunityID is non-nil, matching the perspective. The
// set is born in the scoring state: only queued sets pass through created,
// so the worker poller can never pick up a synchronous run.
func (e *evaluatorService) newSet(perspective models.Perspective, profileID, opportunityID *uuid.UUID, threshold float64) *models.EvaluationSet {
	if threshold <= 0 {
		threshold = e.matching.JudgeThreshold
	}

	return &models.EvaluationSet{
		ID:                uuid.New(),
		Perspective:       perspective,
		ProfileID:         profileID,
		OpportunityID:     opportunityID,
		Status:            models.SetStatusScoring,
		LLMJudgeThreshold: threshold,
	}
}

// runSet executes the two-phase pipeline against a set already in the
// scoring state. Phase 1 scores the whole pool and persists the ranked rows
// in one transaction. Phase 2 walks the gated rows and commits each judge
// outcome on its own, so a slow judge call never holds a storage
// transaction open.
func (e *evaluatorService) runSet(ctx context.Context, set *models.EvaluationSet) error {
	log.Printf("🔄 Starting evaluation set %s (%s)\n", set.ID, set.Perspective)

	pairs, err := e.enumeratePairs(set)
	if err != nil {
		return err
	}

	// Phase 1: structured + semantic scoring over the full pool.
	scored := make([]*scoredPair, 0, len(pairs))
	for _, pair := range pairs {
		scored = append(scored, e.scorePair(pair.profile, pair.opportunity))
	}

	// Stable sort keeps enumeration order on ties, which keeps re-runs
	// deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].combined > scored[j].combined
	})

	evaluations := make([]*models.Evaluation, 0, len(scored))
	for i, pair := range scored {
		evaluations = append(evaluations, &models.Evaluation{
			ID:              uuid.New(),
			EvaluationSetID: set.ID,
			ProfileID:       pair.profile.ID,
			OpportunityID:   pair.opportunity.ID,
			FinalScore:      pair.combined,
			RankInSet:       i + 1,
			ComponentScores: datatypes.JSONMap{
				models.ComponentStructured: pair.structured,
				models.ComponentSemantic:   pair.semantic,
			},
			JudgeStatus: models.JudgeSkipped,
		})
	}

	set.Status = models.SetStatusJudging
	set.TotalEvaluated = len(evaluations)

	if err := e.evalRepo.PersistScoredSet(set, evaluations); err != nil {
		return err
	}

	log.Printf("💾 Persisted %d ranked evaluations for set %s\n", len(evaluations), set.ID)

	// Phase 2: judge enrichment for rows at or above the gate threshold,
	// each committed individually with per-row failure isolation.
	judgedCount := 0
	for i, eval := range evaluations {
		if eval.FinalScore < set.LLMJudgeThreshold {
			continue
		}

		pair := scored[i]
		result, status := e.judgePair(ctx, pair.profile, pair.opportunity, set.Perspective)

		update := &repositories.JudgeUpdateData{
			FinalScore: result.Score,
			JudgeScore: result.Score,
			Reasoning:  result.Reasoning,
			Status:     status,
		}
		if err := e.evalRepo.UpdateJudgeResult(eval.ID, update); err != nil {
			return err
		}

		judgedCount++
	}

	completedAt := time.Now()
	if err := e.evalRepo.FinalizeSet(set.ID, judgedCount, completedAt); err != nil {
		return err
	}

	set.LLMJudgedCount = judgedCount
	set.Status = models.SetStatusComplete
	set.IsComplete = true
	set.CompletedAt = &completedAt

	log.Printf("✅ Evaluation set %s complete: %d evaluated, %d LLM-judged\n", set.ID, set.TotalEvaluated, judgedCount)
	return nil
}

type candidatePair struct {
	profile     *models.Profile
	opportunity *models.Opportunity
}

// enumeratePairs loads the subject entity and the full counterpart pool in
// repository order. A missing subject aborts the run before anything is
// scored.
func (e *evaluatorService) enumeratePairs(set *models.EvaluationSet) ([]candidatePair, error) {
	switch set.Perspective {
	case models.PerspectiveEmployer:
		if set.OpportunityID == nil {
			return nil, fmt.Errorf("evaluation set %s has no opportunity subject", set.ID)
		}
		opportunity, err := e.opportunityRepo.FindByID(*set.OpportunityID)
		if err != nil {
			return nil, err
		}
		profiles, err := e.profileRepo.FindAll()
		if err != nil {
			return nil, err
		}

		pairs := make([]candidatePair, 0, len(profiles))
		for i := range profiles {
			pairs = append(pairs, candidatePair{profile: &profiles[i], opportunity: opportunity})
		}
		return pairs, nil

	case models.PerspectiveCandidate:
		if set.ProfileID == nil {
			return nil, fmt.Errorf("evaluation set %s has no profile subject", set.ID)
		}
		profile, err := e.profileRepo.FindByID(*set.ProfileID)
		if err != nil {
			return nil, err
		}
		opportunities, err := e.opportunityRepo.FindAll()
		if err != nil {
			return nil, err
		}

		pairs := make([]candidatePair, 0, len(opportunities))
		for i := range opportunities {
			pairs = append(pairs, candidatePair{profile: profile, opportunity: &opportunities[i]})
		}
		return pairs, nil

	default:
		return nil, fmt.Errorf("unknown perspective %q", set.Perspective)
	}
}

// scorePair computes the structured and semantic dimensions and their
// weighted combination for one pair.
func (e *evaluatorService) scorePair(profile *models.Profile, opportunity *models.Opportunity) *scoredPair {
	var profileSkills []string
	for _, skill := range profile.Skills {
		profileSkills = append(profileSkills, skill.Name)
	}

	var required, preferred []string
	for _, skill := range opportunity.Skills {
		if skill.Requirement == models.RequirementPreferred {
			preferred = append(preferred, skill.Name)
		} else {
			required = append(required, skill.Name)
		}
	}

	structuredScore := e.structured.Score(profileSkills, required, preferred)
	semanticScore := e.semantic.Score(profile, opportunity)
	combined := clampScore(e.matching.StructuredWeight*structuredScore + e.matching.SemanticWeight*semanticScore)

	return &scoredPair{
		profile:     profile,
		opportunity: opportunity,
		structured:  structuredScore,
		semantic:    semanticScore,
		combined:    combined,
	}
}

// judgePair invokes the LLM judge and absorbs any failure into the
// configured fallback score. The blast radius of an unreliable judge is one
// row's reasoning text, never pipeline completion.
func (e *evaluatorService) judgePair(ctx context.Context, profile *models.Profile, opportunity *models.Opportunity, perspective models.Perspective) (*JudgeResult, models.JudgeStatus) {
	profileSummary := e.promptBuilder.BuildProfileSummary(profile)
	opportunitySummary := e.promptBuilder.BuildOpportunitySummary(opportunity)

	result, err := e.judge.Judge(ctx, profileSummary, opportunitySummary, perspective)
	if err != nil {
		log.Printf("⚠️  LLM judge failed for profile %s / opportunity %s: %v\n", profile.ID, opportunity.ID, err)
		return &JudgeResult{
			Score:     e.matching.JudgeFallbackScore,
			Reasoning: fmt.Sprintf("LLM judge unavailable, fallback score applied: %v", err),
		}, models.JudgeFallback
	}

	return result, models.JudgeScored
}

// BuildSummary implements EvaluatorService.
func (e *evaluatorService) BuildSummary(set *models.EvaluationSet, limit int) (*models.EvaluationSetSummary, error) {
	evaluations, err := e.evalRepo.FindBySet(set.ID, limit)
	if err != nil {
		return nil, err
	}

	summary := &models.EvaluationSetSummary{
		ID:                set.ID.String(),
		Perspective:       string(set.Perspective),
		SubjectID:         set.SubjectID().String(),
		Status:            string(set.Status),
		TotalEvaluated:    set.TotalEvaluated,
		LLMJudgeThreshold: set.LLMJudgeThreshold,
		LLMJudgedCount:    set.LLMJudgedCount,
		IsComplete:        set.IsComplete,
		CreatedAt:         set.CreatedAt,
		CompletedAt:       set.CompletedAt,
		TopMatches:        make([]models.MatchEntry, 0, len(evaluations)),
	}

	names, subjectName, err := e.counterpartNames(set)
	if err != nil {
		return nil, err
	}
	summary.SubjectName = subjectName

	for _, eval := range evaluations {
		counterpartID := eval.ProfileID
		if set.Perspective == models.PerspectiveCandidate {
			counterpartID = eval.OpportunityID
		}

		entry := models.MatchEntry{
			Rank:            eval.RankInSet,
			CounterpartID:   counterpartID.String(),
			CounterpartName: names[counterpartID],
			FinalScore:      eval.FinalScore,
			StructuredScore: eval.ComponentScore(models.ComponentStructured),
			SemanticScore:   eval.ComponentScore(models.ComponentSemantic),
			WasLLMJudged:    eval.WasLLMJudged,
			JudgeStatus:     string(eval.JudgeStatus),
		}

		if eval.WasLLMJudged {
			llmScore := eval.ComponentScore(models.ComponentLLMJudge)
			entry.LLMScore = &llmScore
			entry.LLMReasoning = eval.LLMReasoning
		}

		summary.TopMatches = append(summary.TopMatches, entry)
	}

	return summary, nil
}

// counterpartNames resolves human-readable display names for the
// presentation layer: candidate names under the employer perspective, role
// titles under the candidate perspective.
func (e *evaluatorService) counterpartNames(set *models.EvaluationSet) (map[uuid.UUID]string, string, error) {
	names := make(map[uuid.UUID]string)

	switch set.Perspective {
	case models.PerspectiveEmployer:
		profiles, err := e.profileRepo.FindAll()
		if err != nil {
			return nil, "", err
		}
		for i := range profiles {
			names[profiles[i].ID] = profiles[i].FullName
		}

		subjectName := ""
		if set.OpportunityID != nil {
			if opportunity, err := e.opportunityRepo.FindByID(*set.OpportunityID); err == nil {
				subjectName = opportunity.DisplayName()
			}
		}
		return names, subjectName, nil

	default:
		opportunities, err := e.opportunityRepo.FindAll()
		if err != nil {
			return nil, "", err
		}
		for i := range opportunities {
			names[opportunities[i].ID] = opportunities[i].DisplayName()
		}

		subjectName := ""
		if set.ProfileID != nil {
			if profile, err := e.profileRepo.FindByID(*set.ProfileID); err == nil {
				subjectName = profile.FullName
			}
		}
		return names, subjectName, nil
	}
}
