package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"greentalent/matching-engine/internal/models"
	"greentalent/matching-engine/internal/repositories"
	"greentalent/matching-engine/internal/services"
)

type ResultHandler struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService services.EvaluatorService
}

func NewResultHandler(evalRepo repositories.EvaluationRepository, evaluatorService services.EvaluatorService) *ResultHandler {
	return &ResultHandler{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
	}
}

// HandleGetSet handles GET /evaluation-sets/:id
func (h *ResultHandler) HandleGetSet(c *fiber.Ctx) error {
	set, ok := h.findSet(c)
	if !ok {
		return nil
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	summary, err := h.evaluatorService.BuildSummary(set, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summary)
}

// HandleGetMatches handles GET /evaluation-sets/:id/matches: the top-N
// evaluations sorted by rank.
func (h *ResultHandler) HandleGetMatches(c *fiber.Ctx) error {
	set, ok := h.findSet(c)
	if !ok {
		return nil
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	summary, err := h.evaluatorService.BuildSummary(set, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"evaluation_set_id": set.ID.String(),
		"matches":           summary.TopMatches,
	})
}

// HandleGetJudged handles GET /evaluation-sets/:id/judged: only the rows
// that crossed the LLM judge gate.
func (h *ResultHandler) HandleGetJudged(c *fiber.Ctx) error {
	set, ok := h.findSet(c)
	if !ok {
		return nil
	}

	evals, err := h.evalRepo.FindJudgedBySet(set.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"evaluation_set_id": set.ID.String(),
		"llm_judged_count":  len(evals),
		"evaluations":       evals,
	})
}

func (h *ResultHandler) findSet(c *fiber.Ctx) (*models.EvaluationSet, bool) {
	setID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation set ID format",
		})
		return nil, false
	}

	set, err := h.evalRepo.FindSetByID(setID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Evaluation set not found",
			})
		} else {
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return nil, false
	}

	return set, true
}
