package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"greentalent/matching-engine/internal/models"
	"greentalent/matching-engine/internal/repositories"
	"greentalent/matching-engine/internal/services"
)

type UploadHandler struct {
	profileRepo    repositories.ProfileRepository
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	pdfParser      services.PDFParserService
	maxFileSize    int64
}

func NewUploadHandler(
	profileRepo repositories.ProfileRepository,
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	pdfParser services.PDFParserService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		profileRepo:    profileRepo,
		docRepo:        docRepo,
		storageService: storageService,
		pdfParser:      pdfParser,
		maxFileSize:    maxFileSize,
	}
}

// HandleUploadResume handles POST /profiles/:id/resume. It stores the PDF,
// extracts its text, and saves it as the profile's summary document. Skill
// extraction from the text is owned elsewhere; only the raw summary is
// kept here.
func (h *UploadHandler) HandleUploadResume(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile ID format",
		})
	}

	if _, err := h.profileRepo.FindByID(profileID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveResume(file, profileID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	content, err := h.pdfParser.ExtractText(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract resume text: %v", err),
		})
	}

	doc := models.Document{
		ID:               uuid.New(),
		ProfileID:        profileID,
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         "resume",
		FilePath:         filePath,
		PageCount:        content.PageCount,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume document record",
		})
	}

	if err := h.profileRepo.UpdateSummary(profileID, content.Text); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile summary",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           doc.ID.String(),
		ProfileID:    profileID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
		PageCount:    doc.PageCount,
	})
}
