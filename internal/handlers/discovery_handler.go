package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"greentalent/matching-engine/internal/models"
	"greentalent/matching-engine/internal/repositories"
	"greentalent/matching-engine/internal/services"
)

// DiscoveryHandler exposes vector-index retrieval over the mirrored skill
// embeddings. This is candidate discovery, not ranking: the evaluation
// pipeline stays the only source of match scores.
type DiscoveryHandler struct {
	opportunityRepo repositories.OpportunityRepository
	geminiService   services.GeminiService
	vectorIndex     services.VectorIndexService
}

func NewDiscoveryHandler(
	opportunityRepo repositories.OpportunityRepository,
	geminiService services.GeminiService,
	vectorIndex services.VectorIndexService,
) *DiscoveryHandler {
	return &DiscoveryHandler{
		opportunityRepo: opportunityRepo,
		geminiService:   geminiService,
		vectorIndex:     vectorIndex,
	}
}

// HandleSimilarProfiles handles GET /opportunities/:id/similar-profiles. It
// embeds the opportunity's skill requirements and searches the profile side
// of the index.
func (h *DiscoveryHandler) HandleSimilarProfiles(c *fiber.Ctx) error {
	opportunityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid opportunity ID format",
		})
	}

	opportunity, err := h.opportunityRepo.FindByID(opportunityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Opportunity not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var skillNames []string
	for _, skill := range opportunity.Skills {
		skillNames = append(skillNames, skill.Name)
	}

	queryText := opportunity.Title
	if len(skillNames) > 0 {
		queryText += ": " + strings.Join(skillNames, ", ")
	}

	queryEmbedding, err := h.geminiService.GenerateEmbedding(c.Context(), queryText)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to embed search query",
		})
	}

	hits, err := h.vectorIndex.SearchSimilarSkills(c.Context(), queryEmbedding, "profile", limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Vector index search failed",
		})
	}

	entries := make([]models.SimilarProfileEntry, 0, len(hits))
	for _, hit := range hits {
		entries = append(entries, models.SimilarProfileEntry{
			ProfileID: hit.OwnerID,
			SkillName: hit.SkillName,
			Score:     hit.Score,
		})
	}

	return c.JSON(fiber.Map{
		"opportunity_id": opportunityID.String(),
		"results":        entries,
	})
}
