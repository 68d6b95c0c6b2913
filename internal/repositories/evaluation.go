package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"greentalent/matching-engine/internal/models"
)

type EvaluationRepository interface {
	CreateSet(set *models.EvaluationSet) error
	FindSetByID(id uuid.UUID) (*models.EvaluationSet, error)
	UpdateSetStatus(id uuid.UUID, status models.EvaluationSetStatus) error
	// ClaimSet atomically moves a set from created to scoring. Exactly one
	// caller wins when the poller and a direct enqueue race on the same set.
	ClaimSet(id uuid.UUID) (bool, error)
	// PersistScoredSet writes the set header and all ranked rows in one
	// transaction. Either the whole ranked result exists afterwards or
	// none of it does.
	PersistScoredSet(set *models.EvaluationSet, evaluations []*models.Evaluation) error
	// UpdateJudgeResult commits one row's judge outcome on its own, outside
	// any batch transaction.
	UpdateJudgeResult(id uuid.UUID, data *JudgeUpdateData) error
	FinalizeSet(id uuid.UUID, judgedCount int, completedAt time.Time) error
	FindBySet(setID uuid.UUID, limit int) ([]models.Evaluation, error)
	FindJudgedBySet(setID uuid.UUID) ([]models.Evaluation, error)
	FindPendingSets(limit int) ([]models.EvaluationSet, error)
}

// JudgeUpdateData carries the outcome of one judge call.
type JudgeUpdateData struct {
	FinalScore float64
	JudgeScore float64
	Reasoning  string
	Status     models.JudgeStatus
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) CreateSet(set *models.EvaluationSet) error {
	if err := r.db.Create(set).Error; err != nil {
		return fmt.Errorf("failed to create evaluation set: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindSetByID(id uuid.UUID) (*models.EvaluationSet, error) {
	var set models.EvaluationSet
	if err := r.db.Where("id = ?", id).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation set %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find evaluation set: %w", err)
	}
	return &set, nil
}

func (r *evaluationRepository) UpdateSetStatus(id uuid.UUID, status models.EvaluationSetStatus) error {
	result := r.db.Model(&models.EvaluationSet{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update set status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation set %s: %w", id, ErrNotFound)
	}

	return nil
}

// ClaimSet implements EvaluationRepository. The conditional update is the
// claim: RowsAffected is 1 only for the caller that found the set still in
// the created state.
func (r *evaluationRepository) ClaimSet(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.EvaluationSet{}).
		Where("id = ? AND status = ?", id, models.SetStatusCreated).
		Update("status", models.SetStatusScoring)

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim evaluation set: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// PersistScoredSet implements EvaluationRepository.
func (r *evaluationRepository) PersistScoredSet(set *models.EvaluationSet, evaluations []*models.Evaluation) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.EvaluationSet{}).
			Where("id = ?", set.ID).
			Updates(map[string]interface{}{
				"status":          set.Status,
				"total_evaluated": set.TotalEvaluated,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("evaluation set %s: %w", set.ID, ErrNotFound)
		}

		for _, eval := range evaluations {
			if err := tx.Create(eval).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist scored set: %w", err)
	}

	return nil
}

// UpdateJudgeResult implements EvaluationRepository.
func (r *evaluationRepository) UpdateJudgeResult(id uuid.UUID, data *JudgeUpdateData) error {
	var eval models.Evaluation
	if err := r.db.Where("id = ?", id).First(&eval).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to find evaluation: %w", err)
	}

	components := eval.ComponentScores
	if components == nil {
		components = map[string]interface{}{}
	}
	components[models.ComponentLLMJudge] = data.JudgeScore

	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"final_score":      data.FinalScore,
			"component_scores": components,
			"was_llm_judged":   true,
			"judge_status":     data.Status,
			"llm_reasoning":    data.Reasoning,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update judge result: %w", result.Error)
	}

	return nil
}

// FinalizeSet implements EvaluationRepository.
func (r *evaluationRepository) FinalizeSet(id uuid.UUID, judgedCount int, completedAt time.Time) error {
	result := r.db.Model(&models.EvaluationSet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           models.SetStatusComplete,
			"llm_judged_count": judgedCount,
			"is_complete":      true,
			"completed_at":     completedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to finalize set: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation set %s: %w", id, ErrNotFound)
	}

	return nil
}

// FindBySet implements EvaluationRepository. Rows come back ordered by rank;
// limit <= 0 means all rows.
func (r *evaluationRepository) FindBySet(setID uuid.UUID, limit int) ([]models.Evaluation, error) {
	query := r.db.
		Where("evaluation_set_id = ?", setID).
		Order("rank_in_set ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var evals []models.Evaluation
	if err := query.Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	return evals, nil
}

// FindJudgedBySet implements EvaluationRepository.
func (r *evaluationRepository) FindJudgedBySet(setID uuid.UUID) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("evaluation_set_id = ? AND was_llm_judged = ?", setID, true).
		Order("rank_in_set ASC").
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list judged evaluations: %w", err)
	}

	return evals, nil
}

// FindPendingSets implements EvaluationRepository. Only sets still in the
// created state are pending; synchronous runs are born in the scoring state
// and are never visible to the worker poller.
func (r *evaluationRepository) FindPendingSets(limit int) ([]models.EvaluationSet, error) {
	var sets []models.EvaluationSet
	err := r.db.
		Where("status = ?", models.SetStatusCreated).
		Order("created_at ASC").
		Limit(limit).
		Find(&sets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending sets: %w", err)
	}

	return sets, nil
}
