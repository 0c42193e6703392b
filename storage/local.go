package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes uploads under Dir; the router serves Dir at BaseURL.
type LocalStorage struct {
	Dir     string
	BaseURL string
	MaxSize int64
}

func NewLocalStorage(dir, baseURL string, maxSize int64) *LocalStorage {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &LocalStorage{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
		MaxSize: maxSize,
	}
}

func (s *LocalStorage) UploadFile(ctx context.Context, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	if _, err := ValidateFile(file, s.MaxSize, allowed...); err != nil {
		return "", err
	}

	key := objectKey(folder, file.Filename)
	dst := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := writeFile(dst, src); err != nil {
		return "", err
	}
	return key, nil
}

// writeFile copies src to dst and removes dst when the copy fails.
func writeFile(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	_, err = io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *LocalStorage) DeleteFile(ctx context.Context, objectKey string) error {
	if objectKey == "" || strings.Contains(objectKey, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(objectKey)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) GetPublicLinkKey(objectKey string) string {
	return s.BaseURL + "/" + objectKey
}

func (s *LocalStorage) GetObjectKeyFromLink(link string) string {
	prefix := s.BaseURL + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
