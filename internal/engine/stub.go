package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/luminastudio/lumina/internal/model"
)

// stubPNG is a 1x1 PNG used as the canned image payload.
const stubPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var stubImageBytes, _ = base64.StdEncoding.DecodeString(stubPNG)

// StubClient returns canned results without any network calls, so the
// server can run without an API key (development/testing).
type StubClient struct{}

var _ Client = (*StubClient)(nil)

func (s *StubClient) GenerateBatch(_ context.Context, _, _, _ string, count int) ([]ImagePayload, error) {
	payloads := make([]ImagePayload, count)
	for i := range payloads {
		payloads[i] = ImagePayload{Data: stubImageBytes, MIMEType: "image/png"}
	}
	return payloads, nil
}

func (s *StubClient) GenerateOne(_ context.Context, _, _, _ string) (ImagePayload, error) {
	return ImagePayload{Data: stubImageBytes, MIMEType: "image/png"}, nil
}

func (s *StubClient) EditImage(_ context.Context, modelID string, _ []InputImage, _, _ string) (ImagePayload, error) {
	if !model.Classify(modelID).SupportsEditing {
		return ImagePayload{}, fmt.Errorf("%w: %s cannot edit images", ErrUnsupportedModel, modelID)
	}
	return ImagePayload{Data: stubImageBytes, MIMEType: "image/png"}, nil
}

func (s *StubClient) AnalyzeImage(_ context.Context, _ string, _ InputImage, question string) (string, error) {
	if question == "" {
		question = defaultAnalyzeQuestion
	}
	return "[Stub] Analysis for: " + question, nil
}

func (s *StubClient) Complete(_ context.Context, _, prompt string) (string, error) {
	if strings.Contains(prompt, "prompt engineer") {
		return "[Stub] A richly detailed scene, dramatic rim lighting, intricate textures, balanced composition, moody atmosphere.", nil
	}
	return "[Stub] " + prompt, nil
}

func (s *StubClient) PromptIdeas(_ context.Context, _ string) ([]model.PromptTemplateSection, error) {
	return []model.PromptTemplateSection{
		{
			Category: "Stub Ideas",
			Prompts: []string{
				"A lighthouse on a cliff at dawn, volumetric fog, golden light.",
				"A clockwork hummingbird hovering over brass flowers, macro shot.",
				"An underwater library with bioluminescent jellyfish lamps.",
			},
		},
	}, nil
}
