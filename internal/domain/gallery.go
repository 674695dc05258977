package domain

import (
	"context"
	"time"
)

// GalleryImage is a stored reference to a generated image. Records expire after the gallery TTL.
type GalleryImage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	Tool      ToolID    `json:"tool"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type GalleryRepository interface {
	Save(ctx context.Context, img *GalleryImage) error
	ListActive(ctx context.Context, userID string, now time.Time) ([]*GalleryImage, error)
	Get(ctx context.Context, id string) (*GalleryImage, error)
	Delete(ctx context.Context, id string) error
}

type GalleryService interface {
	Save(ctx context.Context, userID string, tool ToolID, mediaURL, prompt string) error
	List(ctx context.Context, userID string) ([]*GalleryImage, error)
	Delete(ctx context.Context, userID, imageID string) error
}

// MediaStorage uploads generated media and returns the object path.
type MediaStorage interface {
	Upload(ctx context.Context, path string, media Media) (string, error)
}
