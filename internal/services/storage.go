package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService persists uploaded resume PDFs on disk.
type StorageService interface {
	SaveResume(file *multipart.FileHeader, profileID uuid.UUID) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveResume implements StorageService. Returns the generated filename and
// its full path.
func (s *storageService) SaveResume(file *multipart.FileHeader, profileID uuid.UUID) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", "", fmt.Errorf("invalid file extension: %s", ext)
	}

	uniqueFilename := fmt.Sprintf("resume_%s_%s%s", profileID, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
