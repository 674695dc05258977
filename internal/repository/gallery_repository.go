package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"creative-tools-api/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

const galleryTable = "gallery_images"

// SupabaseGalleryRepository implements domain.GalleryRepository on the gallery_images table
type SupabaseGalleryRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseGalleryRepository creates a new Supabase gallery repository
func NewSupabaseGalleryRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseGalleryRepository {
	return &SupabaseGalleryRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

type galleryRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	Tool      string    `json:"tool"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (row galleryRow) toDomain() *domain.GalleryImage {
	return &domain.GalleryImage{
		ID:        row.ID,
		UserID:    row.UserID,
		URL:       row.URL,
		Prompt:    row.Prompt,
		Tool:      domain.ToolID(row.Tool),
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}
}

func (r *SupabaseGalleryRepository) Save(ctx context.Context, img *domain.GalleryImage) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := galleryRow{
		ID:        img.ID,
		UserID:    img.UserID,
		URL:       img.URL,
		Prompt:    img.Prompt,
		Tool:      string(img.Tool),
		CreatedAt: img.CreatedAt,
		ExpiresAt: img.ExpiresAt,
	}
	if _, _, err := client.From(galleryTable).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to save gallery image: %w", err)
	}
	return nil
}

// ListActive returns the user's unexpired images, newest first.
func (r *SupabaseGalleryRepository) ListActive(ctx context.Context, userID string, now time.Time) ([]*domain.GalleryImage, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(galleryTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Gt("expires_at", now.UTC().Format(time.RFC3339)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}

	var rows []galleryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	images := make([]*domain.GalleryImage, 0, len(rows))
	for _, row := range rows {
		images = append(images, row.toDomain())
	}
	return images, nil
}

func (r *SupabaseGalleryRepository) Get(ctx context.Context, id string) (*domain.GalleryImage, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(galleryTable).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get gallery image: %w", err)
	}

	var rows []galleryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain(), nil
}

func (r *SupabaseGalleryRepository) Delete(ctx context.Context, id string) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	if _, _, err := client.From(galleryTable).Delete("minimal", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to delete gallery image: %w", err)
	}
	return nil
}

// MemoryGalleryRepository is the in-process gallery used with the memory store driver.
type MemoryGalleryRepository struct {
	mu     sync.RWMutex
	images map[string]domain.GalleryImage
}

func NewMemoryGalleryRepository() *MemoryGalleryRepository {
	return &MemoryGalleryRepository{images: make(map[string]domain.GalleryImage)}
}

func (r *MemoryGalleryRepository) Save(ctx context.Context, img *domain.GalleryImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[img.ID] = *img
	return nil
}

func (r *MemoryGalleryRepository) ListActive(ctx context.Context, userID string, now time.Time) ([]*domain.GalleryImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.GalleryImage
	for _, img := range r.images {
		if img.UserID != userID || !img.ExpiresAt.After(now) {
			continue
		}
		img := img
		out = append(out, &img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryGalleryRepository) Get(ctx context.Context, id string) (*domain.GalleryImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[id]
	if !ok {
		return nil, nil
	}
	return &img, nil
}

func (r *MemoryGalleryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, id)
	return nil
}
