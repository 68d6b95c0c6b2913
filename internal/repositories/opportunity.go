package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"greentalent/matching-engine/internal/models"
)

type OpportunityRepository interface {
	Create(opportunity *models.Opportunity) error
	FindByID(id uuid.UUID) (*models.Opportunity, error)
	FindAll() ([]models.Opportunity, error)
	SaveSkillEmbedding(skillID uuid.UUID, embedding []float32) error
	SaveRequirementEmbedding(requirementID uuid.UUID, embedding []float32) error
}

type opportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

// Create implements OpportunityRepository.
func (r *opportunityRepository) Create(opportunity *models.Opportunity) error {
	if err := r.db.Create(opportunity).Error; err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	return nil
}

// FindByID implements OpportunityRepository. Skills and experience
// requirements are loaded eagerly.
func (r *opportunityRepository) FindByID(id uuid.UUID) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	err := r.db.
		Preload("Skills").
		Preload("Requirements").
		Where("id = ?", id).
		First(&opportunity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("opportunity %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}

	return &opportunity, nil
}

// FindAll implements OpportunityRepository.
func (r *opportunityRepository) FindAll() ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := r.db.
		Preload("Skills").
		Preload("Requirements").
		Order("created_at ASC, id ASC").
		Find(&opportunities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	return opportunities, nil
}

// SaveSkillEmbedding implements OpportunityRepository.
func (r *opportunityRepository) SaveSkillEmbedding(skillID uuid.UUID, embedding []float32) error {
	vec := pgVector(embedding)
	result := r.db.Model(&models.OpportunitySkill{}).
		Where("id = ?", skillID).
		Updates(map[string]interface{}{
			"embedding":  vec,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save skill embedding: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("opportunity skill %s: %w", skillID, ErrNotFound)
	}

	return nil
}

// SaveRequirementEmbedding implements OpportunityRepository.
func (r *opportunityRepository) SaveRequirementEmbedding(requirementID uuid.UUID, embedding []float32) error {
	result := r.db.Model(&models.OpportunityRequirement{}).
		Where("id = ?", requirementID).
		Updates(map[string]interface{}{
			"embedding":  pgVector(embedding),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save requirement embedding: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("opportunity requirement %s: %w", requirementID, ErrNotFound)
	}

	return nil
}
