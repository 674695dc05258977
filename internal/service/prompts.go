package service

import (
	"fmt"
	"strings"

	"creative-tools-api/internal/domain"
)

const removeWatermarkInstruction = "Remove any distracting or unimportant elements from this image. Focus on the main subject and clean up the background. Only return the edited image."

func logoPrompt(theme string) string {
	return fmt.Sprintf("A modern, minimalist logo for a company with the theme: %q. The logo should be simple, clean, suitable for a brand, and on a solid background.", theme)
}

func emailPrompt(req domain.EmailRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert email writing assistant. Your task is to generate a professional and effective email based on the user's requirements.\n\n")
	fmt.Fprintf(&b, "Recipient: %s\n", req.Recipient)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	if req.Notes != "" {
		fmt.Fprintf(&b, "Additional Notes: %s\n", req.Notes)
	}
	b.WriteString("\nGenerate a concise and appropriate subject line and a well-written email body. Ensure the email is tailored to the specified tone and includes all necessary points from the notes.\n")
	b.WriteString(`Respond with a JSON object: {"subject": string, "body": string}.`)
	return b.String()
}

func documentPrompt(req domain.DocumentRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert content writing assistant. Your task is to generate a professional and well-structured document based on the user's topic.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n\n", req.Topic)
	b.WriteString("Generate a well-written document based on the provided topic. It could be a formal letter, an article, a report, or any other type of document. Ensure the language is clear, concise, and appropriate for the topic.\n")
	b.WriteString(`Respond with a JSON object: {"content": string}.`)
	return b.String()
}

func storyPrompt(req domain.StoryRequest) string {
	var b strings.Builder
	b.WriteString("You are a world-class fiction writer. Your task is to write a compelling short story based on the user's requirements.\n\n")
	fmt.Fprintf(&b, "Topic/Theme: %s\n", req.Topic)
	if req.Characters != "" {
		fmt.Fprintf(&b, "Characters: %s\n", req.Characters)
	}
	if req.Plot != "" {
		fmt.Fprintf(&b, "Plot Outline: %s\n", req.Plot)
	}
	if req.Pages > 0 {
		fmt.Fprintf(&b, "Desired Length: Approximately %d page(s).\n", req.Pages)
	}
	b.WriteString("\nGenerate a suitable title and a well-written, engaging story. The story should be coherent, creative, and follow the provided guidelines.\n")
	b.WriteString(`Respond with a JSON object: {"title": string, "story": string}.`)
	return b.String()
}

func cvPrompt(req domain.CVRequest) string {
	job := req.TargetJobTitle

	var b strings.Builder
	b.WriteString("You are an expert CV writer and career coach. Your task is to generate a professional, well-structured CV based on the user's provided information. The user is targeting a specific job role, so tailor the content to be as relevant and impactful as possible for that role.\n\n")
	fmt.Fprintf(&b, "Target Job Title: %s\n\n", job)

	b.WriteString("Personal Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", req.Name)
	fmt.Fprintf(&b, "- Email: %s\n", req.Email)
	fmt.Fprintf(&b, "- Phone: %s\n", req.Phone)
	fmt.Fprintf(&b, "- Location: %s\n", req.Location)
	if req.PortfolioLink != "" {
		fmt.Fprintf(&b, "- Portfolio/Website: %s\n", req.PortfolioLink)
	}

	b.WriteString("\nProfessional Summary:\n")
	fmt.Fprintf(&b, "Write a concise, impactful professional summary (2-3 sentences) based on the user's experience and skills. It MUST be tailored to the %q role, highlighting their key achievements and how they align with the job's requirements.\n", job)

	b.WriteString("\nExperience:\n")
	for _, exp := range req.Experience {
		fmt.Fprintf(&b, "- Role: %s\n", exp.Role)
		fmt.Fprintf(&b, "  - Company: %s\n", exp.Company)
		fmt.Fprintf(&b, "  - Dates: %s\n", exp.Dates)
		fmt.Fprintf(&b, "  - Responsibilities: %s\n", exp.Responsibilities)
		fmt.Fprintf(&b, "  - Based on these responsibilities, rewrite them into 3-4 impactful, achievement-oriented bullet points. Each bullet point should demonstrate value and be highly relevant to the %q role. Start with strong action verbs.\n", job)
	}

	b.WriteString("\nEducation:\n")
	for _, edu := range req.Education {
		fmt.Fprintf(&b, "- Degree: %s\n", edu.Degree)
		fmt.Fprintf(&b, "  - Institution: %s\n", edu.Institution)
		fmt.Fprintf(&b, "  - Dates: %s\n", edu.Dates)
	}

	b.WriteString("\nSkills:\n")
	fmt.Fprintf(&b, "- Analyze the user's provided experience and the %q.\n", job)
	b.WriteString("- Based on this analysis, generate a list of the most relevant technical and soft skills for the job.\n")
	b.WriteString("- Categorize these generated skills into relevant groups (e.g., \"Technical Skills\", \"Languages\", \"Soft Skills\") that are most important for the target role.\n\n")

	b.WriteString("Generate a complete, polished, and professional CV. The language must be clear, concise, and optimized for the target job title.\n")
	b.WriteString(`Respond with a JSON object: {"professionalSummary": string, "processedExperience": [{"role": string, "company": string, "dates": string, "achievements": [string]}], "categorizedSkills": [{"category": string, "skills": [string]}]}.`)
	return b.String()
}

func voiceCommandPrompt(languageCode string) string {
	var b strings.Builder
	b.WriteString("You are a voice assistant that understands user commands from transcribed audio.\n")
	b.WriteString("Your task is to analyze the transcribed text and determine the user's intent and extract relevant information.\n")
	fmt.Fprintf(&b, "The user is speaking in %s.\n\n", languageCode)
	b.WriteString("Here are the possible actions:\n")
	fmt.Fprintf(&b, "- %q: Triggered when the user wants to write an email. You must extract the 'recipient' and 'topic'.\n", domain.VoiceActionGenerateEmail)
	fmt.Fprintf(&b, "- %q: Triggered when the user wants to write a story. You must extract the 'topic' of the story.\n", domain.VoiceActionWriteStory)
	fmt.Fprintf(&b, "- %q: Triggered when the user wants to write a document, an article, a letter, or a similar piece of text. You must extract the 'topic' of the document.\n", domain.VoiceActionGenerateDocument)
	fmt.Fprintf(&b, "- %q: If the command does not match any of the above actions, or if it's just a simple transcription request.\n\n", domain.VoiceActionNone)
	b.WriteString("Transcribe the attached audio, then determine the action and its data.\n")
	b.WriteString(`Respond with a JSON object: {"transcription": string, "action": {"name": string, "data": object}}.`)
	return b.String()
}
