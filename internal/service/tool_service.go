package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/metrics"
	"creative-tools-api/pkg/datauri"
	"creative-tools-api/pkg/wav"
)

// ToolSettings selects models and the metering policy for the tool wrappers.
type ToolSettings struct {
	TextModel   string
	ImageModel  string
	SpeechModel string
	Voice       string
	// ChargeOnBackendFailure consumes the credit before the backend call, so a
	// failed generation still counts. When false the credit is charged only
	// after the backend succeeded.
	ChargeOnBackendFailure bool
}

type toolService struct {
	backend  domain.AIBackend
	gate     domain.UsageGate
	gallery  domain.GalleryService
	settings ToolSettings
	logger   domain.Logger
}

// NewToolService wires the metered tool wrappers. gallery may be nil.
func NewToolService(
	backend domain.AIBackend,
	gate domain.UsageGate,
	gallery domain.GalleryService,
	settings ToolSettings,
	logger domain.Logger,
) *toolService {
	return &toolService{
		backend:  backend,
		gate:     gate,
		gallery:  gallery,
		settings: settings,
		logger:   logger,
	}
}

func (s *toolService) GenerateImage(ctx context.Context, userID string, req domain.TextToImageRequest) (*domain.ImageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	res, err := s.invoke(ctx, userID, domain.ToolTextToImage, domain.GenerationRequest{
		Model:      s.settings.ImageModel,
		Prompt:     req.Prompt,
		Modalities: []domain.Modality{domain.ModalityText, domain.ModalityImage},
		Safety:     domain.DefaultSafety(),
	}, nil)
	if err != nil {
		return nil, err
	}

	out := imageResponse(res)
	s.saveToGallery(ctx, userID, domain.ToolTextToImage, out, req.Prompt)
	return out, nil
}

func (s *toolService) EditImage(ctx context.Context, userID string, req domain.EditImageRequest) (*domain.ImageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	photo, err := parseMedia(req.PhotoDataURI)
	if err != nil {
		return nil, err
	}

	res, err := s.invoke(ctx, userID, domain.ToolEditImage, domain.GenerationRequest{
		Model:      s.settings.ImageModel,
		Prompt:     req.Prompt,
		Media:      []domain.Media{photo},
		Modalities: []domain.Modality{domain.ModalityText, domain.ModalityImage},
		Safety:     domain.DefaultSafety(),
	}, nil)
	if err != nil {
		return nil, err
	}
	return imageResponse(res), nil
}

func (s *toolService) RemoveWatermark(ctx context.Context, userID string, req domain.RemoveWatermarkRequest) (*domain.ImageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	photo, err := parseMedia(req.PhotoDataURI)
	if err != nil {
		return nil, err
	}

	res, err := s.invoke(ctx, userID, domain.ToolRemoveWatermark, domain.GenerationRequest{
		Model:      s.settings.ImageModel,
		Prompt:     removeWatermarkInstruction,
		Media:      []domain.Media{photo},
		Modalities: []domain.Modality{domain.ModalityText, domain.ModalityImage},
		Safety: []domain.SafetySetting{
			{Category: domain.HarmDangerousContent, Threshold: domain.ThresholdBlockOnlyHigh},
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return imageResponse(res), nil
}

func (s *toolService) GenerateLogo(ctx context.Context, userID string, req domain.LogoRequest) (*domain.ImageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	res, err := s.invoke(ctx, userID, domain.ToolLogoGenerator, domain.GenerationRequest{
		Model:      s.settings.ImageModel,
		Prompt:     logoPrompt(req.Prompt),
		Modalities: []domain.Modality{domain.ModalityText, domain.ModalityImage},
		Safety:     domain.DefaultSafety(),
	}, nil)
	if err != nil {
		return nil, err
	}

	out := imageResponse(res)
	s.saveToGallery(ctx, userID, domain.ToolLogoGenerator, out, req.Prompt)
	return out, nil
}

func (s *toolService) GenerateEmail(ctx context.Context, userID string, req domain.EmailRequest) (*domain.EmailResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out domain.EmailResponse
	if err := s.invokeJSON(ctx, userID, domain.ToolGenerateEmail, emailPrompt(req), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDocument is metered against the generate-cv counter; documents and
// CVs share the writing allowance.
func (s *toolService) GenerateDocument(ctx context.Context, userID string, req domain.DocumentRequest) (*domain.DocumentResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out domain.DocumentResponse
	if err := s.invokeJSON(ctx, userID, domain.ToolGenerateCV, documentPrompt(req), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *toolService) GenerateCV(ctx context.Context, userID string, req domain.CVRequest) (*domain.CVResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out domain.CVResponse
	if err := s.invokeJSON(ctx, userID, domain.ToolGenerateCV, cvPrompt(req), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *toolService) WriteStory(ctx context.Context, userID string, req domain.StoryRequest) (*domain.StoryResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out domain.StoryResponse
	if err := s.invokeJSON(ctx, userID, domain.ToolStoryWriter, storyPrompt(req), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *toolService) TextToSpeech(ctx context.Context, userID string, req domain.SpeechRequest) (*domain.SpeechResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	res, err := s.invoke(ctx, userID, domain.ToolTextToVoice, domain.GenerationRequest{
		Model:      s.settings.SpeechModel,
		Prompt:     req.Text,
		Modalities: []domain.Modality{domain.ModalityAudio},
		Voice:      s.settings.Voice,
	}, requireAudio)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(res.Media.MIMEType, "audio/wav") {
		return &domain.SpeechResponse{Media: wav.DataURI(res.Media.Data)}, nil
	}
	encoded := wav.Encode(res.Media.Data, wav.FormatFromMIME(res.Media.MIMEType))
	return &domain.SpeechResponse{Media: wav.DataURI(encoded)}, nil
}

func requireAudio(res *domain.GenerationResult) error {
	if res.Media == nil || len(res.Media.Data) == 0 {
		return errors.New("no audio returned")
	}
	return nil
}

func (s *toolService) RouteVoiceCommand(ctx context.Context, userID string, req domain.VoiceCommandRequest) (*domain.VoiceCommandResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	audio, err := parseMedia(req.AudioDataURI)
	if err != nil {
		return nil, err
	}

	var out domain.VoiceCommandResponse
	if err := s.invokeJSON(ctx, userID, domain.ToolVoiceAssistant, voiceCommandPrompt(req.LanguageCode), []domain.Media{audio}, &out); err != nil {
		return nil, err
	}

	switch out.Action.Name {
	case domain.VoiceActionGenerateEmail, domain.VoiceActionWriteStory, domain.VoiceActionGenerateDocument:
	default:
		out.Action = domain.VoiceAction{Name: domain.VoiceActionNone, Data: out.Action.Data}
	}
	return &out, nil
}

// invoke meters the call according to the charge policy and runs the backend.
// accept, when set, rejects unusable output before any charge is recorded in
// charge-after-success mode. Gate errors are returned untouched; backend and
// accept errors as *domain.BackendError.
func (s *toolService) invoke(ctx context.Context, userID string, tool domain.ToolID, req domain.GenerationRequest, accept func(*domain.GenerationResult) error) (*domain.GenerationResult, error) {
	if s.settings.ChargeOnBackendFailure {
		if err := s.gate.Authorize(ctx, userID, tool); err != nil {
			metrics.ToolInvocations.WithLabelValues(string(tool), "denied").Inc()
			return nil, err
		}
		return s.generate(ctx, userID, tool, req, accept)
	}

	var (
		res    *domain.GenerationResult
		genErr error
	)
	err := s.gate.Meter(ctx, userID, tool, func(ctx context.Context) error {
		res, genErr = s.generate(ctx, userID, tool, req, accept)
		return genErr
	})
	if genErr != nil {
		return nil, genErr
	}
	if err != nil {
		metrics.ToolInvocations.WithLabelValues(string(tool), "denied").Inc()
		return nil, err
	}
	return res, nil
}

func (s *toolService) generate(ctx context.Context, userID string, tool domain.ToolID, req domain.GenerationRequest, accept func(*domain.GenerationResult) error) (*domain.GenerationResult, error) {
	res, err := s.backend.Generate(ctx, req)
	if err == nil && res == nil {
		err = errors.New("empty response from model")
	}
	if err == nil && accept != nil {
		err = accept(res)
	}
	if err != nil {
		metrics.ToolInvocations.WithLabelValues(string(tool), "backend_error").Inc()
		s.logger.Error("Tool generation failed", err, "user_id", userID, "tool", string(tool))
		var be *domain.BackendError
		if errors.As(err, &be) {
			return nil, be
		}
		return nil, domain.NewBackendError("", err)
	}

	metrics.ToolInvocations.WithLabelValues(string(tool), "ok").Inc()
	return res, nil
}

// invokeJSON runs a text-model call that must answer with a JSON object and decodes it into out.
func (s *toolService) invokeJSON(ctx context.Context, userID string, tool domain.ToolID, prompt string, media []domain.Media, out interface{}) error {
	_, err := s.invoke(ctx, userID, tool, domain.GenerationRequest{
		Model:      s.settings.TextModel,
		Prompt:     prompt,
		Media:      media,
		Safety:     domain.DefaultSafety(),
		JSONOutput: true,
	}, func(res *domain.GenerationResult) error {
		return decodeJSONOutput(res.Text, out)
	})
	return err
}

// saveToGallery records the image without affecting the caller's result.
func (s *toolService) saveToGallery(ctx context.Context, userID string, tool domain.ToolID, out *domain.ImageResponse, prompt string) {
	if s.gallery == nil || out.ImageURL == nil {
		return
	}
	if err := s.gallery.Save(ctx, userID, tool, *out.ImageURL, prompt); err != nil {
		metrics.GallerySaveFailures.Inc()
		s.logger.Error("Failed to save image to gallery", err, "user_id", userID, "tool", string(tool))
	}
}

func imageResponse(res *domain.GenerationResult) *domain.ImageResponse {
	if res.Media == nil || len(res.Media.Data) == 0 {
		return &domain.ImageResponse{}
	}
	uri := datauri.Encode(res.Media.MIMEType, res.Media.Data)
	return &domain.ImageResponse{ImageURL: &uri}
}

func parseMedia(uri string) (domain.Media, error) {
	mimeType, data, err := datauri.Parse(uri)
	if err != nil {
		return domain.Media{}, fmt.Errorf("%w: %v", domain.ErrInvalidMedia, err)
	}
	return domain.Media{MIMEType: mimeType, Data: data}, nil
}

// decodeJSONOutput tolerates a markdown code fence around the object.
func decodeJSONOutput(text string, out interface{}) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		return fmt.Errorf("failed to decode model output: %w", err)
	}
	return nil
}
