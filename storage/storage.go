package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/cook-platform/config"
)

var AllowImage = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

const DefaultMaxSize int64 = 5 << 20

var (
	ErrFileType     = errors.New("file type is not allowed")
	ErrFileTooLarge = errors.New("file is too large")
)

// Storage keeps uploaded media (avatars, cook photos) and hands out public links.
type Storage interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
	DeleteFile(ctx context.Context, objectKey string) error
	GetPublicLinkKey(objectKey string) string
	GetObjectKeyFromLink(link string) string
}

// New builds the backend selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL, cfg.MaxUploadSize), nil
	case "s3":
		return NewAwsS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Driver)
	}
}

// ValidateFile checks extension, size and sniffed content type.
func ValidateFile(file *multipart.FileHeader, maxSize int64, allowed ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(allowed) > 0 && !contains(allowed, ext) {
		return "", fmt.Errorf("%w: %s", ErrFileType, ext)
	}
	if maxSize > 0 && file.Size > maxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, file.Size, maxSize)
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	contentType := http.DetectContentType(head[:n])
	if isImageList(allowed) && !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: content is %s", ErrFileType, contentType)
	}
	return contentType, nil
}

// objectKey returns folder/<uuid><ext>.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.Trim(folder, "/") + "/" + uuid.NewString() + ext
}

func isImageList(allowed []string) bool {
	for _, ext := range allowed {
		if !contains(AllowImage, ext) {
			return false
		}
	}
	return len(allowed) > 0
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
