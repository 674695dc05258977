package handler

import (
	"context"
	"net/http"

	"creative-tools-api/internal/domain"

	"github.com/gorilla/mux"
)

// ToolHandler serves the metered AI tools.
type ToolHandler struct {
	tools  domain.ToolService
	logger domain.Logger
	routes map[string]toolRoute
}

// toolRoute decodes a request body and runs one tool.
type toolRoute func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error)

func NewToolHandler(tools domain.ToolService, logger domain.Logger) *ToolHandler {
	h := &ToolHandler{tools: tools, logger: logger}
	h.routes = map[string]toolRoute{
		string(domain.ToolTextToImage): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.TextToImageRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.GenerateImage(ctx, userID, req)
		},
		string(domain.ToolEditImage): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.EditImageRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.EditImage(ctx, userID, req)
		},
		string(domain.ToolRemoveWatermark): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.RemoveWatermarkRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.RemoveWatermark(ctx, userID, req)
		},
		string(domain.ToolLogoGenerator): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.LogoRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.GenerateLogo(ctx, userID, req)
		},
		string(domain.ToolGenerateEmail): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.EmailRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.GenerateEmail(ctx, userID, req)
		},
		"generate-document": func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.DocumentRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.GenerateDocument(ctx, userID, req)
		},
		string(domain.ToolGenerateCV): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.CVRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.GenerateCV(ctx, userID, req)
		},
		string(domain.ToolStoryWriter): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.StoryRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.WriteStory(ctx, userID, req)
		},
		string(domain.ToolTextToVoice): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.SpeechRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.TextToSpeech(ctx, userID, req)
		},
		string(domain.ToolVoiceAssistant): func(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (interface{}, error) {
			var req domain.VoiceCommandRequest
			if err := decodeJSON(w, r, &req); err != nil {
				return nil, err
			}
			return h.tools.RouteVoiceCommand(ctx, userID, req)
		},
	}
	return h
}

// Invoke handles POST /tools/{tool}.
func (h *ToolHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	name := mux.Vars(r)["tool"]
	route, ok := h.routes[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown tool")
		return
	}

	res, err := route(r.Context(), w, r, userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
