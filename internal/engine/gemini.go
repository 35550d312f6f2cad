package engine

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/luminastudio/lumina/internal/model"
)

// GeminiClient implements Client using the official Gemini Go SDK. The same
// client serves both backend families: generateContent for Gemini models and
// generateImages for Imagen models.
type GeminiClient struct {
	client *genai.Client
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a client authenticated with the given API key.
// With an empty key the SDK falls back to the GEMINI_API_KEY / GOOGLE_API_KEY
// environment variables.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// GenerateBatch issues one generateImages call requesting count outputs.
// Only the Imagen family supports this endpoint.
func (c *GeminiClient) GenerateBatch(ctx context.Context, modelID, prompt, aspectRatio string, count int) ([]ImagePayload, error) {
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: int32(count),
		OutputMIMEType: "image/png",
	}
	if aspectRatio != "" {
		cfg.AspectRatio = aspectRatio
	}

	resp, err := c.client.Models.GenerateImages(ctx, modelID, prompt, cfg)
	if err != nil {
		return nil, &RemoteCallError{Op: "generate", Model: modelID, Err: err}
	}
	return imagesFromBatch(resp)
}

// GenerateOne issues one generateContent call and returns the first inline
// image from the response.
func (c *GeminiClient) GenerateOne(ctx context.Context, modelID, prompt, aspectRatio string) (ImagePayload, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, contents, imageGenConfig(aspectRatio))
	if err != nil {
		return ImagePayload{}, &RemoteCallError{Op: "generate", Model: modelID, Err: err}
	}
	return firstImage(resp)
}

// EditImage sends the reference images (primary first) followed by the
// instruction and returns the edited image.
func (c *GeminiClient) EditImage(ctx context.Context, modelID string, images []InputImage, instruction, aspectRatio string) (ImagePayload, error) {
	if !model.Classify(modelID).SupportsEditing {
		return ImagePayload{}, fmt.Errorf("%w: %s cannot edit images", ErrUnsupportedModel, modelID)
	}

	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: img.Data, MIMEType: img.MIMEType},
		})
	}
	parts = append(parts, &genai.Part{Text: instruction})

	contents := []*genai.Content{{Parts: parts}}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, contents, imageGenConfig(aspectRatio))
	if err != nil {
		return ImagePayload{}, &RemoteCallError{Op: "edit", Model: modelID, Err: err}
	}
	return firstImage(resp)
}

// AnalyzeImage asks a free-text question about one image and returns the
// model's answer. An empty answer normalizes to a fixed placeholder.
func (c *GeminiClient) AnalyzeImage(ctx context.Context, modelID string, image InputImage, question string) (string, error) {
	if question == "" {
		question = defaultAnalyzeQuestion
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: image.Data, MIMEType: image.MIMEType}},
			{Text: question},
		}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, contents, nil)
	if err != nil {
		return "", &RemoteCallError{Op: "analyze", Model: modelID, Err: err}
	}

	text := responseText(resp)
	if text == "" {
		return noAnalysisText, nil
	}
	return text, nil
}

// Complete runs a plain text-generation call.
func (c *GeminiClient) Complete(ctx context.Context, modelID, prompt string) (string, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, contents, nil)
	if err != nil {
		return "", &RemoteCallError{Op: "complete", Model: modelID, Err: err}
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// ideasSchema constrains the prompt-ideas call to the template collection
// shape.
var ideasSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sections": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category": {Type: genai.TypeString},
					"prompts": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
				},
				Required: []string{"category", "prompts"},
			},
		},
	},
}

// PromptIdeas requests a fresh template collection as structured JSON.
func (c *GeminiClient) PromptIdeas(ctx context.Context, modelID string) ([]model.PromptTemplateSection, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: promptIdeasInstruction}}},
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ideasSchema,
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelID, contents, cfg)
	if err != nil {
		return nil, &RemoteCallError{Op: "prompt-ideas", Model: modelID, Err: err}
	}
	return parseTemplateSections(responseText(resp)), nil
}

// imageGenConfig enables image output and applies the aspect ratio when set.
func imageGenConfig(aspectRatio string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if aspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: aspectRatio}
	}
	return cfg
}
