package gemini

import (
	"context"
	"fmt"
	"strings"

	"creative-tools-api/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

var harmCategories = map[string]genai.HarmCategory{
	domain.HarmDangerousContent: genai.HarmCategoryDangerousContent,
	domain.HarmHateSpeech:       genai.HarmCategoryHateSpeech,
	domain.HarmHarassment:       genai.HarmCategoryHarassment,
	domain.HarmSexuallyExplicit: genai.HarmCategorySexuallyExplicit,
}

var harmThresholds = map[string]genai.HarmBlockThreshold{
	domain.ThresholdBlockOnlyHigh: genai.HarmBlockOnlyHigh,
}

type sdkGenerator struct {
	client *genai.Client
}

func (g *sdkGenerator) Close() error {
	return g.client.Close()
}

func (g *sdkGenerator) generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	model := g.client.GenerativeModel(req.Model)
	model.SetTemperature(0.7)
	model.SafetySettings = sdkSafety(req.Safety)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}
	}
	if req.JSONOutput {
		model.ResponseMIMEType = "application/json"
	}

	parts := make([]genai.Part, 0, len(req.Media)+1)
	for _, m := range req.Media {
		parts = append(parts, genai.Blob{MIMEType: m.MIMEType, Data: m.Data})
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &domain.GenerationResult{}, nil
	}

	result := &domain.GenerationResult{}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case genai.Blob:
			if result.Media == nil {
				result.Media = &domain.Media{MIMEType: p.MIMEType, Data: p.Data}
			}
		}
	}
	result.Text = sb.String()
	return result, nil
}

func sdkSafety(settings []domain.SafetySetting) []*genai.SafetySetting {
	out := make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		category, ok := harmCategories[s.Category]
		if !ok {
			continue
		}
		threshold, ok := harmThresholds[s.Threshold]
		if !ok {
			threshold = genai.HarmBlockOnlyHigh
		}
		out = append(out, &genai.SafetySetting{Category: category, Threshold: threshold})
	}
	return out
}
