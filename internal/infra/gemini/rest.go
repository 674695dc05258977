package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"creative-tools-api/internal/domain"
)

func vertexEndpoint(projectID, location string) string {
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models", location, projectID, location)
}

// restGenerator calls {endpoint}/{model}:generateContent. httpClient must
// attach credentials.
type restGenerator struct {
	httpClient *http.Client
	endpoint   string
}

type restPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *restInlineData `json:"inlineData,omitempty"`
}

type restInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type restGenerationConfig struct {
	ResponseModalities []domain.Modality `json:"responseModalities,omitempty"`
	ResponseMIMEType   string            `json:"responseMimeType,omitempty"`
	SpeechConfig       *restSpeechConfig `json:"speechConfig,omitempty"`
}

type restRequest struct {
	Contents          []restContent          `json:"contents"`
	SystemInstruction *restContent           `json:"systemInstruction,omitempty"`
	GenerationConfig  restGenerationConfig   `json:"generationConfig"`
	SafetySettings    []domain.SafetySetting `json:"safetySettings,omitempty"`
}

type restResponse struct {
	Candidates []struct {
		Content      restContent `json:"content"`
		FinishReason string      `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type restErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func buildRESTRequest(req domain.GenerationRequest) restRequest {
	parts := make([]restPart, 0, len(req.Media)+1)
	if req.Prompt != "" {
		parts = append(parts, restPart{Text: req.Prompt})
	}
	for _, m := range req.Media {
		parts = append(parts, restPart{InlineData: &restInlineData{
			MIMEType: m.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(m.Data),
		}})
	}

	body := restRequest{
		Contents:       []restContent{{Role: "user", Parts: parts}},
		SafetySettings: req.Safety,
		GenerationConfig: restGenerationConfig{
			ResponseModalities: req.Modalities,
		},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &restContent{Parts: []restPart{{Text: req.SystemInstruction}}}
	}
	if req.JSONOutput {
		body.GenerationConfig.ResponseMIMEType = "application/json"
	}
	if req.Voice != "" {
		sc := &restSpeechConfig{}
		sc.VoiceConfig.PrebuiltVoiceConfig.VoiceName = req.Voice
		body.GenerationConfig.SpeechConfig = sc
	}
	return body
}

func (g *restGenerator) generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	jsonBody, err := json.Marshal(buildRESTRequest(req))
	if err != nil {
		return nil, err
	}

	url := g.endpoint + "/" + req.Model + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var eb restErrorBody
		_ = json.Unmarshal(raw, &eb)
		return nil, &apiError{status: resp.StatusCode, message: eb.Error.Message}
	}

	var decoded restResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
		return nil, &blockedError{reason: decoded.PromptFeedback.BlockReason}
	}
	if len(decoded.Candidates) == 0 {
		return &domain.GenerationResult{}, nil
	}

	candidate := decoded.Candidates[0]
	if candidate.FinishReason == "SAFETY" || candidate.FinishReason == "PROHIBITED_CONTENT" {
		return nil, &blockedError{reason: candidate.FinishReason}
	}

	result := &domain.GenerationResult{}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
		if part.InlineData != nil && result.Media == nil {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("invalid inline data: %w", err)
			}
			result.Media = &domain.Media{MIMEType: part.InlineData.MIMEType, Data: data}
		}
	}
	result.Text = sb.String()
	return result, nil
}
