package handler

import (
	"context"
	"net/http"
	"time"

	"creative-tools-api/internal/domain"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             {}

func createContextWithUser(r *http.Request, user *domain.SupabaseUser) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

type mockAuthService struct {
	user      *domain.SupabaseUser
	err       error
	lastToken string
}

func (m *mockAuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

type mockSubscriptionService struct {
	sub       *domain.Subscription
	err       error
	lastPlan  domain.Plan
	lastUser  string
	resetUser string
}

func (m *mockSubscriptionService) GetEffectiveSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	m.lastUser = userID
	return m.sub, m.err
}

func (m *mockSubscriptionService) SetPlan(ctx context.Context, userID string, plan domain.Plan, status string, renewal *domain.Timestamp) (*domain.Subscription, error) {
	m.lastUser = userID
	m.lastPlan = plan
	if m.err != nil {
		return nil, m.err
	}
	return m.sub, nil
}

func (m *mockSubscriptionService) ResetUsage(ctx context.Context, userID string) (*domain.Subscription, error) {
	m.resetUser = userID
	return m.sub, m.err
}

func freeSubscription(userID string, usage map[domain.ToolID]int) *domain.Subscription {
	return &domain.Subscription{
		UserID:    userID,
		Plan:      domain.PlanFree,
		Usage:     usage,
		Limit:     domain.PlanLimit(domain.PlanFree),
		Status:    domain.StatusTrialing,
		LastReset: domain.NewTimestamp(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// mockToolService answers every tool with canned values or err.
type mockToolService struct {
	err      error
	lastUser string
	lastReq  interface{}
}

func (m *mockToolService) record(userID string, req interface{}) error {
	m.lastUser = userID
	m.lastReq = req
	return m.err
}

func (m *mockToolService) GenerateImage(ctx context.Context, userID string, req domain.TextToImageRequest) (*domain.ImageResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	url := "data:image/png;base64,AAAA"
	return &domain.ImageResponse{ImageURL: &url}, nil
}

func (m *mockToolService) EditImage(ctx context.Context, userID string, req domain.EditImageRequest) (*domain.ImageResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.ImageResponse{}, nil
}

func (m *mockToolService) RemoveWatermark(ctx context.Context, userID string, req domain.RemoveWatermarkRequest) (*domain.ImageResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.ImageResponse{}, nil
}

func (m *mockToolService) GenerateLogo(ctx context.Context, userID string, req domain.LogoRequest) (*domain.ImageResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.ImageResponse{}, nil
}

func (m *mockToolService) GenerateEmail(ctx context.Context, userID string, req domain.EmailRequest) (*domain.EmailResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.EmailResponse{Subject: "Hello", Body: "Body"}, nil
}

func (m *mockToolService) GenerateDocument(ctx context.Context, userID string, req domain.DocumentRequest) (*domain.DocumentResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.DocumentResponse{Content: "Content"}, nil
}

func (m *mockToolService) GenerateCV(ctx context.Context, userID string, req domain.CVRequest) (*domain.CVResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.CVResponse{ProfessionalSummary: "Summary"}, nil
}

func (m *mockToolService) WriteStory(ctx context.Context, userID string, req domain.StoryRequest) (*domain.StoryResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.StoryResponse{Title: "Title", Story: "Story"}, nil
}

func (m *mockToolService) TextToSpeech(ctx context.Context, userID string, req domain.SpeechRequest) (*domain.SpeechResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.SpeechResponse{Media: "data:audio/wav;base64,AAAA"}, nil
}

func (m *mockToolService) RouteVoiceCommand(ctx context.Context, userID string, req domain.VoiceCommandRequest) (*domain.VoiceCommandResponse, error) {
	if err := m.record(userID, req); err != nil {
		return nil, err
	}
	return &domain.VoiceCommandResponse{Transcription: "hi", Action: domain.VoiceAction{Name: domain.VoiceActionNone}}, nil
}

type mockGalleryService struct {
	images    []*domain.GalleryImage
	err       error
	deletedID string
}

func (m *mockGalleryService) Save(ctx context.Context, userID string, tool domain.ToolID, mediaURL, prompt string) error {
	return m.err
}

func (m *mockGalleryService) List(ctx context.Context, userID string) ([]*domain.GalleryImage, error) {
	return m.images, m.err
}

func (m *mockGalleryService) Delete(ctx context.Context, userID, imageID string) error {
	m.deletedID = imageID
	return m.err
}
