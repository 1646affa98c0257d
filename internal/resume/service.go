package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"analyzer-backend/internal/extract"
	"analyzer-backend/internal/shared/storage/object"
	"analyzer-backend/internal/shared/telemetry"
)

// ErrEmptyResume indicates the uploaded file produced no usable text.
var ErrEmptyResume = errors.New("no text could be extracted from resume")

// Service processes uploaded resume artifacts: persists the original file and
// derives structured info from its text.
type Service struct {
	Store object.ObjectStore
}

// NewService constructs a Service. store may be nil, in which case uploads
// are analyzed without being persisted.
func NewService(store object.ObjectStore) *Service {
	return &Service{Store: store}
}

// Process extracts and parses resume content. The returned payload is the
// "resume" source entry of an aggregate response.
func (s *Service) Process(ctx context.Context, owner, fileName, mimeType string, data []byte) (map[string]any, error) {
	text, err := extract.TextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return nil, fmt.Errorf("process resume %s: %w", fileName, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResume
	}

	payload := ParseText(text)
	payload["file_name"] = fileName

	// Persisting the original is best-effort; analysis does not depend on it.
	if s.Store != nil {
		storageKey, size, detectedMime, err := s.Store.Save(ctx, owner, fileName, bytes.NewReader(data))
		if err != nil {
			telemetry.Warn("resume.store_failed", map[string]any{
				"file_name": fileName,
				"error":     err.Error(),
			})
		} else {
			payload["storage_key"] = storageKey
			payload["size_bytes"] = size
			payload["mime_type"] = detectedMime
		}
	}

	return payload, nil
}
