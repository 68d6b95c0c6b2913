package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"greentalent/matching-engine/internal/models"
	"greentalent/matching-engine/internal/repositories"
	"greentalent/matching-engine/internal/services"
)

type EvaluateHandler struct {
	evaluatorService services.EvaluatorService
	evalRepo         repositories.EvaluationRepository
	profileRepo      repositories.ProfileRepository
	opportunityRepo  repositories.OpportunityRepository
	worker           services.Worker
	defaultThreshold float64
}

func NewEvaluateHandler(
	evaluatorService services.EvaluatorService,
	evalRepo repositories.EvaluationRepository,
	profileRepo repositories.ProfileRepository,
	opportunityRepo repositories.OpportunityRepository,
	worker services.Worker,
	defaultThreshold float64,
) *EvaluateHandler {
	return &EvaluateHandler{
		evaluatorService: evaluatorService,
		evalRepo:         evalRepo,
		profileRepo:      profileRepo,
		opportunityRepo:  opportunityRepo,
		worker:           worker,
		defaultThreshold: defaultThreshold,
	}
}

// HandleEvaluateOpportunity handles POST /opportunities/:id/evaluate. It
// ranks every candidate profile for the opportunity and returns the full
// summary synchronously.
func (h *EvaluateHandler) HandleEvaluateOpportunity(c *fiber.Ctx) error {
	opportunityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid opportunity ID format",
		})
	}

	threshold, limit, err := parseEvaluateQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	summary, err := h.evaluatorService.EvaluateCandidatesForOpportunity(c.Context(), opportunityID, threshold, limit)
	if err != nil {
		return evaluationError(c, err)
	}

	return c.JSON(summary)
}

// HandleEvaluateProfile handles POST /profiles/:id/evaluate, the
// symmetrical candidate-perspective run ranking every opportunity.
func (h *EvaluateHandler) HandleEvaluateProfile(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile ID format",
		})
	}

	threshold, limit, err := parseEvaluateQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	summary, err := h.evaluatorService.EvaluateOpportunitiesForProfile(c.Context(), profileID, threshold, limit)
	if err != nil {
		return evaluationError(c, err)
	}

	return c.JSON(summary)
}

// HandleEvaluatePair handles POST /match/pair: a detailed one-pair score
// breakdown that always runs the judge.
func (h *EvaluateHandler) HandleEvaluatePair(c *fiber.Ctx) error {
	var req models.PairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile_id format",
		})
	}

	opportunityID, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid opportunity_id format",
		})
	}

	breakdown, err := h.evaluatorService.EvaluatePair(c.Context(), profileID, opportunityID)
	if err != nil {
		return evaluationError(c, err)
	}

	return c.JSON(breakdown)
}

// HandleEnqueueEvaluation handles POST /evaluations. It queues a batch run
// through the worker and returns immediately with the set ID.
func (h *EvaluateHandler) HandleEnqueueEvaluation(c *fiber.Ctx) error {
	var req models.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject_id format",
		})
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = h.defaultThreshold
	}

	set := &models.EvaluationSet{
		ID:                uuid.New(),
		Status:            models.SetStatusCreated,
		LLMJudgeThreshold: threshold,
		CreatedAt:         time.Now(),
	}

	// Reject a missing subject up front. A queued set with no subject could
	// never complete, and nothing should be persisted for it.
	switch models.Perspective(req.Perspective) {
	case models.PerspectiveEmployer:
		if _, err := h.opportunityRepo.FindByID(subjectID); err != nil {
			return evaluationError(c, err)
		}
		set.Perspective = models.PerspectiveEmployer
		set.OpportunityID = &subjectID
	case models.PerspectiveCandidate:
		if _, err := h.profileRepo.FindByID(subjectID); err != nil {
			return evaluationError(c, err)
		}
		set.Perspective = models.PerspectiveCandidate
		set.ProfileID = &subjectID
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "perspective must be employer_seeking_candidates or candidate_seeking_opportunities",
		})
	}

	if err := h.evalRepo.CreateSet(set); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation set",
		})
	}

	h.worker.EnqueueSet(set.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     set.ID.String(),
		Status: string(models.SetStatusCreated),
	})
}

func parseEvaluateQuery(c *fiber.Ctx) (threshold float64, limit int, err error) {
	if raw := c.Query("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			return 0, 0, errors.New("threshold must be a number between 0.0 and 1.0")
		}
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, errors.New("limit must be a non-negative integer")
		}
	}

	return threshold, limit, nil
}

func evaluationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
