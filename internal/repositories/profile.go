package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"greentalent/matching-engine/internal/models"
)

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByID(id uuid.UUID) (*models.Profile, error)
	FindAll() ([]models.Profile, error)
	UpdateSummary(id uuid.UUID, summary string) error
	SaveSkillEmbedding(skillID uuid.UUID, embedding []float32) error
	SaveExperienceEmbedding(experienceID uuid.UUID, embedding []float32) error
	SaveExperienceSkillEmbedding(usageID uuid.UUID, embedding []float32) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create implements ProfileRepository.
func (r *profileRepository) Create(profile *models.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// FindByID implements ProfileRepository. Skills, experiences and the
// experience-scoped skill usages are all loaded eagerly so the scoring core
// never touches the database.
func (r *profileRepository) FindByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.
		Preload("Skills").
		Preload("Experiences").
		Preload("Experiences.Skills").
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

// FindAll implements ProfileRepository. Ordering by creation time keeps the
// candidate pool enumeration deterministic, which in turn keeps tie-breaking
// in the ranking stable between runs.
func (r *profileRepository) FindAll() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.
		Preload("Skills").
		Preload("Experiences").
		Preload("Experiences.Skills").
		Order("created_at ASC, id ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// UpdateSummary implements ProfileRepository.
func (r *profileRepository) UpdateSummary(id uuid.UUID, summary string) error {
	result := r.db.Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary_text": summary,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update profile summary: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}

	return nil
}

// SaveSkillEmbedding implements ProfileRepository.
func (r *profileRepository) SaveSkillEmbedding(skillID uuid.UUID, embedding []float32) error {
	vec := pgVector(embedding)
	result := r.db.Model(&models.ProfileSkill{}).
		Where("id = ?", skillID).
		Updates(map[string]interface{}{
			"embedding":  vec,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save skill embedding: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("profile skill %s: %w", skillID, ErrNotFound)
	}

	return nil
}

// SaveExperienceEmbedding implements ProfileRepository.
func (r *profileRepository) SaveExperienceEmbedding(experienceID uuid.UUID, embedding []float32) error {
	result := r.db.Model(&models.Experience{}).
		Where("id = ?", experienceID).
		Updates(map[string]interface{}{
			"embedding":  pgVector(embedding),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save experience embedding: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("experience %s: %w", experienceID, ErrNotFound)
	}

	return nil
}

// SaveExperienceSkillEmbedding implements ProfileRepository.
func (r *profileRepository) SaveExperienceSkillEmbedding(usageID uuid.UUID, embedding []float32) error {
	result := r.db.Model(&models.ExperienceSkill{}).
		Where("id = ?", usageID).
		Updates(map[string]interface{}{
			"embedding":  pgVector(embedding),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save skill usage embedding: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("experience skill %s: %w", usageID, ErrNotFound)
	}

	return nil
}
