package domain

import "context"

// Modality is an output kind requested from the generation backend.
type Modality string

const (
	ModalityText  Modality = "TEXT"
	ModalityImage Modality = "IMAGE"
	ModalityAudio Modality = "AUDIO"
)

// Harm categories and the block threshold used by every tool.
const (
	HarmDangerousContent   = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmHateSpeech         = "HARM_CATEGORY_HATE_SPEECH"
	HarmHarassment         = "HARM_CATEGORY_HARASSMENT"
	HarmSexuallyExplicit   = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	ThresholdBlockOnlyHigh = "BLOCK_ONLY_HIGH"
)

// SafetySetting is one (category, threshold) pair sent with a generation call.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// DefaultSafety blocks only high-probability harm in all four categories.
func DefaultSafety() []SafetySetting {
	return []SafetySetting{
		{Category: HarmDangerousContent, Threshold: ThresholdBlockOnlyHigh},
		{Category: HarmHateSpeech, Threshold: ThresholdBlockOnlyHigh},
		{Category: HarmHarassment, Threshold: ThresholdBlockOnlyHigh},
		{Category: HarmSexuallyExplicit, Threshold: ThresholdBlockOnlyHigh},
	}
}

// Media is inline binary content exchanged with the backend.
type Media struct {
	MIMEType string
	Data     []byte
}

// GenerationRequest describes one call to the generation backend.
type GenerationRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Media             []Media
	Modalities        []Modality
	Safety            []SafetySetting
	// JSONOutput asks the model for an application/json response.
	JSONOutput bool
	// Voice selects a prebuilt voice for audio output.
	Voice string
}

// WantsMedia reports whether image or audio output was requested.
func (r GenerationRequest) WantsMedia() bool {
	for _, m := range r.Modalities {
		if m == ModalityImage || m == ModalityAudio {
			return true
		}
	}
	return false
}

// GenerationResult is what the backend produced.
type GenerationResult struct {
	Text  string
	Media *Media
}

// AIBackend is the hosted generative-AI contract. Failures should be *BackendError.
type AIBackend interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}
