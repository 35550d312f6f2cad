package engine

import (
	"context"

	"github.com/luminastudio/lumina/internal/model"
)

// ImagePayload is a normalized image result: raw bytes plus mime type,
// regardless of which backend family produced it.
type ImagePayload struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// InputImage is a caller-supplied reference image.
type InputImage struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// Client abstracts the remote model service. Every method issues exactly one
// outbound call and performs no retries; retry policy belongs to callers.
//
// GenerateBatch targets the batch-capable family and requests count outputs
// in one call. GenerateOne targets the single-call family and returns one
// image; fanning out for multi-image requests is the Studio's concern.
type Client interface {
	GenerateBatch(ctx context.Context, modelID, prompt, aspectRatio string, count int) ([]ImagePayload, error)
	GenerateOne(ctx context.Context, modelID, prompt, aspectRatio string) (ImagePayload, error)

	// EditImage sends reference images (primary first) followed by the
	// instruction, matching the backend's positional contract.
	EditImage(ctx context.Context, modelID string, images []InputImage, instruction, aspectRatio string) (ImagePayload, error)

	// AnalyzeImage answers a free-text question about a single image.
	AnalyzeImage(ctx context.Context, modelID string, image InputImage, question string) (string, error)

	// Complete runs a plain text-generation call.
	Complete(ctx context.Context, modelID, prompt string) (string, error)

	// PromptIdeas asks for a structured collection of prompt templates.
	// A malformed or missing payload yields an empty collection, not an error.
	PromptIdeas(ctx context.Context, modelID string) ([]model.PromptTemplateSection, error)
}
