// Package messages implements the wall operations: fetching the deduplicated
// feed, saving/soft-deleting a user's message, and uploading images.
package messages

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"messagewall/internal/common"
	"messagewall/internal/listing"
	"messagewall/internal/logging"
	"messagewall/internal/server/records"
	"messagewall/internal/server/repomanager"
	"messagewall/internal/server/storage"
)

// Upload purposes namespace object keys in the bucket.
const (
	PurposeMessage = "message"
	PurposeAvatar  = "user-avatar"
)

// MaxWallMessages caps the feed at one message per user, newest first.
const MaxWallMessages = 24

// SaveInput carries the fields a user may set when posting or editing their
// message. An empty Name keeps the stored display name.
type SaveInput struct {
	Name     string
	Text     string
	ImageRef string
}

type Service struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	uploader storage.Uploader
	logger   logging.Logger
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, uploader storage.Uploader, logger logging.Logger) *Service {
	return &Service{
		db:       db,
		repos:    rm,
		uploader: uploader,
		logger:   logger.With("module", "messages"),
	}
}

// FetchRecent returns the wall feed: every record with a message image,
// newest first, at most one per distinct email, capped at MaxWallMessages.
func (s *Service) FetchRecent(ctx context.Context) ([]*records.Record, error) {
	recs, err := s.repos.Records(s.db).ListWithImage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetch, err)
	}

	return listing.DedupeByEmail(recs, MaxWallMessages), nil
}

// Save updates the user's message in place. It never creates a row, so a
// user can have at most one message on the wall.
func (s *Service) Save(ctx context.Context, userID string, in SaveInput) (*records.Record, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: message text is required", common.ErrValidation)
	}
	if utf8.RuneCountInString(in.Text) > common.MaxMessageLen {
		return nil, fmt.Errorf("%w: message exceeds %d characters", common.ErrValidation, common.MaxMessageLen)
	}
	if in.ImageRef == "" {
		return nil, fmt.Errorf("%w: message image is required", common.ErrValidation)
	}

	rec, err := s.repos.Records(s.db).UpdateMessage(ctx, userID, in.Name, in.Text, in.ImageRef)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", common.ErrSave, common.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrSave, err)
	}

	return rec, nil
}

// Delete soft-deletes the user's message by clearing its image reference.
// The text and identity fields stay on the record.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.repos.Records(s.db).ClearMessageImage(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrDelete, err)
	}
	return nil
}

// Upload stores an image and returns a URL for it. When the object store is
// unavailable the image is returned inline as a data URL instead, so posting
// a message never fails purely because of storage downtime.
func (s *Service) Upload(ctx context.Context, purpose, filename string, data []byte) (string, error) {
	if purpose != PurposeMessage && purpose != PurposeAvatar {
		return "", fmt.Errorf("%w: unknown upload purpose %q", common.ErrValidation, purpose)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrValidation)
	}
	if len(data) > common.MaxImageBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", common.ErrValidation, common.MaxImageBytes)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: file is not an image", common.ErrValidation)
	}

	key := buildStorageKey(purpose, filename)

	url, err := s.uploader.Upload(ctx, key, data, contentType)
	if err != nil {
		// Degraded path: inline the image rather than failing the flow.
		s.logger.Warn(ctx, "image upload failed, falling back to data URL", "key", key, "error", err.Error())
		return dataURL(contentType, data), nil
	}

	return url, nil
}

// buildStorageKey derives a collision-resistant object key that keeps the
// original file extension: <purpose>/<unix-ms>-<uuid>.<ext>.
func buildStorageKey(purpose, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%d-%s%s", purpose, time.Now().UnixMilli(), uuid.NewString(), ext)
}

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
