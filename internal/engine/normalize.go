package engine

import (
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/luminastudio/lumina/internal/model"
)

// This file is the response normalizer: it converts each family's raw
// response into ImagePayload / text / template collections.

// imagesFromBatch extracts every image from a batch-family response, in
// response order. An empty response is an error for generation calls.
func imagesFromBatch(resp *genai.GenerateImagesResponse) ([]ImagePayload, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, ErrEmptyResponse
	}

	payloads := make([]ImagePayload, 0, len(resp.GeneratedImages))
	for _, gi := range resp.GeneratedImages {
		if gi == nil || gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			continue
		}
		mime := gi.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		payloads = append(payloads, ImagePayload{Data: gi.Image.ImageBytes, MIMEType: mime})
	}
	if len(payloads) == 0 {
		return nil, ErrEmptyResponse
	}
	return payloads, nil
}

// firstImage scans content parts in response order and returns the first
// segment carrying inline image bytes.
func firstImage(resp *genai.GenerateContentResponse) (ImagePayload, error) {
	if resp == nil {
		return ImagePayload{}, ErrEmptyResponse
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return ImagePayload{Data: part.InlineData.Data, MIMEType: mime}, nil
		}
	}
	return ImagePayload{}, ErrEmptyResponse
}

// responseText concatenates the text parts of a response. Thought parts are
// skipped. Returns "" when the response carries no text.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// parseTemplateSections decodes the structured prompt-ideas payload. A
// malformed or missing payload yields an empty collection so callers can
// fall back to the static templates.
func parseTemplateSections(raw string) []model.PromptTemplateSection {
	var out struct {
		Sections []model.PromptTemplateSection `json:"sections"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out.Sections
}
