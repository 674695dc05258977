package domain

import (
	"context"
	"encoding/json"
)

// ToolID identifies one metered AI capability. The set is closed.
type ToolID string

const (
	ToolTextToImage     ToolID = "text-to-image"
	ToolEditImage       ToolID = "edit-image"
	ToolRemoveWatermark ToolID = "remove-watermark"
	ToolGenerateEmail   ToolID = "generate-email"
	ToolStoryWriter     ToolID = "story-writer"
	ToolLogoGenerator   ToolID = "logo-generator"
	ToolTextToVoice     ToolID = "text-to-voice"
	ToolVoiceAssistant  ToolID = "voice-assistant"
	ToolGenerateCV      ToolID = "generate-cv"
)

// AllTools lists every metered tool in display order.
var AllTools = []ToolID{
	ToolTextToImage,
	ToolEditImage,
	ToolRemoveWatermark,
	ToolGenerateEmail,
	ToolStoryWriter,
	ToolLogoGenerator,
	ToolTextToVoice,
	ToolVoiceAssistant,
	ToolGenerateCV,
}

// ParseToolID validates a tool identifier against the closed set.
func ParseToolID(s string) (ToolID, bool) {
	for _, t := range AllTools {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// ImageResponse carries a generated image as a data URI or storage URL.
type ImageResponse struct {
	ImageURL *string `json:"imageUrl"`
}

type TextToImageRequest struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

type EditImageRequest struct {
	Prompt       string `json:"prompt" validate:"required,max=2000"`
	PhotoDataURI string `json:"photoDataUri" validate:"required,datauri"`
}

type RemoveWatermarkRequest struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required,datauri"`
}

type LogoRequest struct {
	Prompt string `json:"prompt" validate:"required,max=500"`
}

type EmailRequest struct {
	Recipient string `json:"recipient" validate:"required,max=200"`
	Topic     string `json:"topic" validate:"required,max=1000"`
	Tone      string `json:"tone" validate:"required,oneof=Formal Casual Persuasive Friendly"`
	Notes     string `json:"notes,omitempty" validate:"max=4000"`
}

type EmailResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type DocumentRequest struct {
	Topic string `json:"topic" validate:"required,max=2000"`
}

type DocumentResponse struct {
	Content string `json:"content"`
}

type StoryRequest struct {
	Topic      string `json:"topic" validate:"required,max=1000"`
	Characters string `json:"characters,omitempty" validate:"max=2000"`
	Plot       string `json:"plot,omitempty" validate:"max=4000"`
	Pages      int    `json:"pages,omitempty" validate:"omitempty,min=1,max=50"`
}

type StoryResponse struct {
	Title string `json:"title"`
	Story string `json:"story"`
}

type CVExperience struct {
	Role             string `json:"role" validate:"required"`
	Company          string `json:"company" validate:"required"`
	Dates            string `json:"dates"`
	Responsibilities string `json:"responsibilities"`
}

type CVEducation struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Dates       string `json:"dates"`
}

type CVReference struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

type CVRequest struct {
	Name           string         `json:"name" validate:"required"`
	Email          string         `json:"email" validate:"omitempty,email"`
	Phone          string         `json:"phone" validate:"required"`
	Location       string         `json:"location" validate:"required"`
	PortfolioLink  string         `json:"portfolioLink,omitempty" validate:"omitempty,url"`
	PhotoDataURI   string         `json:"photoDataUri,omitempty" validate:"omitempty,datauri"`
	TargetJobTitle string         `json:"targetJobTitle" validate:"required"`
	Experience     []CVExperience `json:"experience" validate:"dive"`
	Education      []CVEducation  `json:"education" validate:"dive"`
	Hobbies        string         `json:"hobbies,omitempty"`
	Volunteering   string         `json:"volunteering,omitempty"`
	References     []CVReference  `json:"references,omitempty"`
}

type CVSkillCategory struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

type CVProcessedExperience struct {
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	Dates        string   `json:"dates"`
	Achievements []string `json:"achievements"`
}

type CVResponse struct {
	ProfessionalSummary string                  `json:"professionalSummary"`
	ProcessedExperience []CVProcessedExperience `json:"processedExperience"`
	CategorizedSkills   []CVSkillCategory       `json:"categorizedSkills"`
}

type SpeechRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

type SpeechResponse struct {
	Media string `json:"media"`
}

// Voice command actions the assistant can route to.
const (
	VoiceActionGenerateEmail    = "generateEmail"
	VoiceActionWriteStory       = "writeStory"
	VoiceActionGenerateDocument = "generateDocument"
	VoiceActionNone             = "none"
)

type VoiceCommandRequest struct {
	AudioDataURI string `json:"audioDataUri" validate:"required,datauri"`
	LanguageCode string `json:"languageCode" validate:"required,oneof=en ar"`
}

type VoiceAction struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

type VoiceCommandResponse struct {
	Transcription string      `json:"transcription"`
	Action        VoiceAction `json:"action"`
}

// ToolService runs the metered AI tools on behalf of an authenticated user.
type ToolService interface {
	GenerateImage(ctx context.Context, userID string, req TextToImageRequest) (*ImageResponse, error)
	EditImage(ctx context.Context, userID string, req EditImageRequest) (*ImageResponse, error)
	RemoveWatermark(ctx context.Context, userID string, req RemoveWatermarkRequest) (*ImageResponse, error)
	GenerateLogo(ctx context.Context, userID string, req LogoRequest) (*ImageResponse, error)
	GenerateEmail(ctx context.Context, userID string, req EmailRequest) (*EmailResponse, error)
	GenerateDocument(ctx context.Context, userID string, req DocumentRequest) (*DocumentResponse, error)
	GenerateCV(ctx context.Context, userID string, req CVRequest) (*CVResponse, error)
	WriteStory(ctx context.Context, userID string, req StoryRequest) (*StoryResponse, error)
	TextToSpeech(ctx context.Context, userID string, req SpeechRequest) (*SpeechResponse, error)
	RouteVoiceCommand(ctx context.Context, userID string, req VoiceCommandRequest) (*VoiceCommandResponse, error)
}
