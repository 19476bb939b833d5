package media

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
)

var (
	// ErrInvalidFile marks uploads rejected before anything is stored.
	ErrInvalidFile     = errors.New("invalid file")
	ErrUnsupportedType = fmt.Errorf("%w: only image/* and video/* files are accepted", ErrInvalidFile)
)

// StoredFile describes an upload that reached the media storage.
type StoredFile struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	// MediaType is the family ("image" or "video") recorded on initiative media rows.
	MediaType string `json:"-"`
}

// Service validates uploads and hands them to the configured Storage.
type Service struct {
	storage  Storage
	maxBytes int64
}

// NewService creates an upload service; maxSizeMB <= 0 disables the size cap.
func NewService(storage Storage, maxSizeMB int) *Service {
	var maxBytes int64
	if maxSizeMB > 0 {
		maxBytes = int64(maxSizeMB) * 1024 * 1024
	}
	return &Service{storage: storage, maxBytes: maxBytes}
}

// Save stores one multipart file under a fresh unique name.
func (s *Service) Save(ctx context.Context, fh *multipart.FileHeader) (*StoredFile, error) {
	if fh == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidFile)
	}
	contentType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	kind := kindOf(contentType)
	if kind == "" {
		return nil, fmt.Errorf("%w, got %q", ErrUnsupportedType, contentType)
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: file size exceeds %dMB", ErrInvalidFile, s.maxBytes/1024/1024)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	filename := buildFileName(fh.Filename, kind)
	url, err := s.storage.Put(ctx, filename, src, fh.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &StoredFile{
		URL:         url,
		Filename:    filename,
		ContentType: contentType,
		MediaType:   kind,
	}, nil
}

// Remove deletes a previously stored file by its generated name.
func (s *Service) Remove(ctx context.Context, filename string) error {
	return s.storage.Delete(ctx, filename)
}
