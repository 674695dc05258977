package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/repository"
	"creative-tools-api/internal/service"
)

const testAdminSecret = "admin-secret"

type routerDeps struct {
	auth    *mockAuthService
	subs    *mockSubscriptionService
	tools   *mockToolService
	gallery *mockGalleryService
}

func newTestRouter(deps routerDeps) http.Handler {
	logger := NewMockHandlerLogger()
	if deps.auth == nil {
		deps.auth = &mockAuthService{user: &domain.SupabaseUser{ID: "user-1"}}
	}
	if deps.subs == nil {
		deps.subs = &mockSubscriptionService{sub: freeSubscription("user-1", map[domain.ToolID]int{})}
	}
	if deps.tools == nil {
		deps.tools = &mockToolService{}
	}
	if deps.gallery == nil {
		deps.gallery = &mockGalleryService{}
	}
	return NewRouter(
		NewAuthHandler(),
		NewSubscriptionHandler(deps.subs, logger),
		NewToolHandler(deps.tools, logger),
		NewGalleryHandler(deps.gallery, logger),
		NewAdminHandler(deps.subs, testAdminSecret, logger),
		NewAuthMiddleware(deps.auth, logger).Middleware,
		nil,
	)
}

func doRequest(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

var bearer = map[string]string{"Authorization": "Bearer good"}

func TestNewRouter_Health(t *testing.T) {
	router := newTestRouter(routerDeps{})

	rr := doRequest(router, http.MethodGet, "/health", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	router := newTestRouter(routerDeps{})

	rr := doRequest(router, http.MethodGet, "/metrics", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestNewRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(routerDeps{})

	for _, path := range []string{"/api/v1/subscription", "/api/v1/gallery", "/api/v1/auth/validate"} {
		rr := doRequest(router, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusUnauthorized, rr.Code)
		}
	}
}

func TestSubscriptionHandler_Get(t *testing.T) {
	subs := &mockSubscriptionService{sub: freeSubscription("user-1", map[domain.ToolID]int{domain.ToolEditImage: 2})}
	router := newTestRouter(routerDeps{subs: subs})

	rr := doRequest(router, http.MethodGet, "/api/v1/subscription", "", bearer)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if subs.lastUser != "user-1" {
		t.Fatalf("expected subscription lookup for user-1, got %q", subs.lastUser)
	}

	var payload struct {
		Plan      string         `json:"plan"`
		Limit     int            `json:"limit"`
		Usage     map[string]int `json:"usage"`
		Remaining map[string]int `json:"remaining"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Plan != "Free" || payload.Limit != 5 {
		t.Fatalf("unexpected plan/limit: %+v", payload)
	}
	if payload.Remaining["edit-image"] != 3 || payload.Remaining["text-to-image"] != 5 {
		t.Fatalf("unexpected remaining: %v", payload.Remaining)
	}
	if len(payload.Remaining) != len(domain.AllTools) {
		t.Fatalf("expected remaining for every tool, got %v", payload.Remaining)
	}
}

func TestSubscriptionHandler_StoreFailure(t *testing.T) {
	subs := &mockSubscriptionService{err: domain.StoreError("get subscription", errors.New("timeout"))}
	router := newTestRouter(routerDeps{subs: subs})

	rr := doRequest(router, http.MethodGet, "/api/v1/subscription", "", bearer)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestToolHandler_Dispatch(t *testing.T) {
	tests := []struct {
		tool     string
		body     string
		wantType interface{}
	}{
		{"text-to-image", `{"prompt":"fox"}`, domain.TextToImageRequest{}},
		{"edit-image", `{"prompt":"blue","photoDataUri":"data:image/png;base64,AAAA"}`, domain.EditImageRequest{}},
		{"remove-watermark", `{"photoDataUri":"data:image/png;base64,AAAA"}`, domain.RemoveWatermarkRequest{}},
		{"logo-generator", `{"prompt":"coffee"}`, domain.LogoRequest{}},
		{"generate-email", `{"recipient":"a","topic":"b","tone":"Formal"}`, domain.EmailRequest{}},
		{"generate-document", `{"topic":"letter"}`, domain.DocumentRequest{}},
		{"generate-cv", `{"name":"Ada"}`, domain.CVRequest{}},
		{"story-writer", `{"topic":"dragons"}`, domain.StoryRequest{}},
		{"text-to-voice", `{"text":"hello"}`, domain.SpeechRequest{}},
		{"voice-assistant", `{"audioDataUri":"data:audio/webm;base64,AAAA","languageCode":"en"}`, domain.VoiceCommandRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tools := &mockToolService{}
			router := newTestRouter(routerDeps{tools: tools})

			rr := doRequest(router, http.MethodPost, "/api/v1/tools/"+tt.tool, tt.body, bearer)

			if rr.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
			}
			if tools.lastUser != "user-1" {
				t.Fatalf("expected user-1, got %q", tools.lastUser)
			}
			if got, want := fmt.Sprintf("%T", tools.lastReq), fmt.Sprintf("%T", tt.wantType); got != want {
				t.Fatalf("expected request type %s, got %s", want, got)
			}
		})
	}
}

func TestToolHandler_UnknownTool(t *testing.T) {
	router := newTestRouter(routerDeps{})

	rr := doRequest(router, http.MethodPost, "/api/v1/tools/summarize", `{}`, bearer)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestToolHandler_MalformedBody(t *testing.T) {
	tools := &mockToolService{}
	router := newTestRouter(routerDeps{tools: tools})

	rr := doRequest(router, http.MethodPost, "/api/v1/tools/text-to-image", `{bad`, bearer)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if tools.lastReq != nil {
		t.Fatalf("expected tool not to be called")
	}
}

func TestToolHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"quota", &domain.QuotaError{Tool: domain.ToolTextToImage, Plan: domain.PlanFree, Used: 5, Limit: domain.FiniteLimit(5)}, http.StatusPaymentRequired},
		{"backend", domain.NewBackendError("", errors.New("503")), http.StatusServiceUnavailable},
		{"validation", &domain.ValidationError{Message: "prompt is required"}, http.StatusBadRequest},
		{"unauthenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(routerDeps{tools: &mockToolService{err: tt.err}})

			rr := doRequest(router, http.MethodPost, "/api/v1/tools/text-to-image", `{"prompt":"fox"}`, bearer)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestGalleryHandler(t *testing.T) {
	gallery := &mockGalleryService{images: []*domain.GalleryImage{{ID: "img-1", UserID: "user-1", URL: "data:image/png;base64,AAAA"}}}
	router := newTestRouter(routerDeps{gallery: gallery})

	rr := doRequest(router, http.MethodGet, "/api/v1/gallery", "", bearer)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"img-1"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}

	rr = doRequest(router, http.MethodDelete, "/api/v1/gallery/img-1", "", bearer)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if gallery.deletedID != "img-1" {
		t.Fatalf("expected img-1 to be deleted, got %q", gallery.deletedID)
	}

	gallery.err = domain.ErrGalleryItemNotFound
	rr = doRequest(router, http.MethodDelete, "/api/v1/gallery/img-2", "", bearer)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestAdminHandler_RequiresSecret(t *testing.T) {
	router := newTestRouter(routerDeps{})

	rr := doRequest(router, http.MethodPost, "/api/v1/admin/subscriptions/user-1/reset", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	rr = doRequest(router, http.MethodPost, "/api/v1/admin/subscriptions/user-1/reset", "", map[string]string{"X-Admin-Secret": "wrong"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestAdminHandler_DisabledWithoutSecret(t *testing.T) {
	logger := NewMockHandlerLogger()
	handler := NewAdminHandler(&mockSubscriptionService{}, "", logger)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Admin-Secret", "")
	rr := httptest.NewRecorder()
	handler.ResetUsage(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestAdminHandler_SetPlanAndReset(t *testing.T) {
	subs := &mockSubscriptionService{sub: freeSubscription("user-9", map[domain.ToolID]int{})}
	router := newTestRouter(routerDeps{subs: subs})
	admin := map[string]string{"X-Admin-Secret": testAdminSecret}

	rr := doRequest(router, http.MethodPut, "/api/v1/admin/subscriptions/user-9/plan", `{"plan":"Monthly","renewal_date":1767225600000}`, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if subs.lastUser != "user-9" || subs.lastPlan != "Monthly" {
		t.Fatalf("unexpected set-plan call: user=%q plan=%q", subs.lastUser, subs.lastPlan)
	}

	rr = doRequest(router, http.MethodPost, "/api/v1/admin/subscriptions/user-9/reset", "", admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if subs.resetUser != "user-9" {
		t.Fatalf("expected reset for user-9, got %q", subs.resetUser)
	}

	subs.err = domain.ErrInvalidPlan
	rr = doRequest(router, http.MethodPut, "/api/v1/admin/subscriptions/user-9/plan", `{"plan":"Gold"}`, admin)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

// fixedBackend always returns the same text.
type fixedBackend struct {
	text string
}

func (b fixedBackend) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	return &domain.GenerationResult{Text: b.text}, nil
}

func TestRouter_FreeQuotaEndToEnd(t *testing.T) {
	logger := NewMockHandlerLogger()
	store := repository.NewMemoryDocumentStore()
	repo := repository.NewSubscriptionRepository(store, logger)
	subs := service.NewSubscriptionService(repo, logger, func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	gate := service.NewUsageGate(subs, repo, nil, logger)
	tools := service.NewToolService(fixedBackend{text: `{"title":"T","story":"S"}`}, gate, nil, service.ToolSettings{
		TextModel:              "text-model",
		ChargeOnBackendFailure: true,
	}, logger)

	router := NewRouter(
		NewAuthHandler(),
		NewSubscriptionHandler(subs, logger),
		NewToolHandler(tools, logger),
		NewGalleryHandler(&mockGalleryService{}, logger),
		NewAdminHandler(subs, testAdminSecret, logger),
		NewAuthMiddleware(&mockAuthService{user: &domain.SupabaseUser{ID: "user-1"}}, logger).Middleware,
		nil,
	)

	for i := 0; i < 5; i++ {
		rr := doRequest(router, http.MethodPost, "/api/v1/tools/story-writer", `{"topic":"dragons"}`, bearer)
		if rr.Code != http.StatusOK {
			t.Fatalf("call %d: expected status %d, got %d: %s", i+1, http.StatusOK, rr.Code, rr.Body.String())
		}
	}

	rr := doRequest(router, http.MethodPost, "/api/v1/tools/story-writer", `{"topic":"dragons"}`, bearer)
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status %d, got %d", http.StatusPaymentRequired, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"upgrade_url":"/subscriptions"`) {
		t.Fatalf("expected upgrade url in body: %s", rr.Body.String())
	}

	rr = doRequest(router, http.MethodGet, "/api/v1/subscription", "", bearer)
	var payload struct {
		Usage     map[string]int `json:"usage"`
		Remaining map[string]int `json:"remaining"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Usage["story-writer"] != 5 || payload.Remaining["story-writer"] != 0 {
		t.Fatalf("unexpected usage: %+v", payload)
	}

	rr = doRequest(router, http.MethodPost, "/api/v1/admin/subscriptions/user-1/reset", "", map[string]string{"X-Admin-Secret": testAdminSecret})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	rr = doRequest(router, http.MethodPost, "/api/v1/tools/story-writer", `{"topic":"dragons"}`, bearer)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d after reset, got %d", http.StatusOK, rr.Code)
	}
}
