package service

import (
	"context"
	"fmt"
	"time"

	"creative-tools-api/internal/domain"
	"creative-tools-api/pkg/datauri"

	"github.com/google/uuid"
)

// DefaultGalleryTTL is how long a saved image stays listed.
const DefaultGalleryTTL = 7 * 24 * time.Hour

type galleryService struct {
	repo    domain.GalleryRepository
	storage domain.MediaStorage
	ttl     time.Duration
	logger  domain.Logger
	now     func() time.Time
}

// NewGalleryService creates the gallery. storage may be nil, in which case the
// data URI itself is stored.
func NewGalleryService(repo domain.GalleryRepository, storage domain.MediaStorage, ttl time.Duration, logger domain.Logger) *galleryService {
	if ttl <= 0 {
		ttl = DefaultGalleryTTL
	}
	return &galleryService{
		repo:    repo,
		storage: storage,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *galleryService) Save(ctx context.Context, userID string, tool domain.ToolID, mediaURL, prompt string) error {
	now := s.now().UTC()
	img := &domain.GalleryImage{
		ID:        uuid.NewString(),
		UserID:    userID,
		URL:       mediaURL,
		Prompt:    prompt,
		Tool:      tool,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if s.storage != nil {
		mimeType, data, err := datauri.Parse(mediaURL)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidMedia, err)
		}
		path := fmt.Sprintf("gallery/%s/%s%s", userID, img.ID, datauri.Extension(data))
		stored, err := s.storage.Upload(ctx, path, domain.Media{MIMEType: mimeType, Data: data})
		if err != nil {
			return fmt.Errorf("failed to upload gallery image: %w", err)
		}
		img.URL = stored
	}

	if err := s.repo.Save(ctx, img); err != nil {
		return fmt.Errorf("failed to save gallery image: %w", err)
	}
	s.logger.Debug("Saved gallery image", "user_id", userID, "image_id", img.ID, "tool", string(tool))
	return nil
}

func (s *galleryService) List(ctx context.Context, userID string) ([]*domain.GalleryImage, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	images, err := s.repo.ListActive(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery: %w", err)
	}
	if images == nil {
		images = []*domain.GalleryImage{}
	}
	return images, nil
}

// Delete removes an image owned by userID. Images of other users read as missing.
func (s *galleryService) Delete(ctx context.Context, userID, imageID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	img, err := s.repo.Get(ctx, imageID)
	if err != nil {
		return fmt.Errorf("failed to load gallery image: %w", err)
	}
	if img == nil || img.UserID != userID {
		return domain.ErrGalleryItemNotFound
	}
	if err := s.repo.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("failed to delete gallery image: %w", err)
	}
	return nil
}
