package model

import "strings"

// Family identifies the request/response contract a backend model follows.
const (
	// FamilyGemini models are called through generateContent and return at
	// most one image per call. Editing and analysis go through this family.
	FamilyGemini = "gemini"

	// FamilyImagen models are called through generateImages and natively
	// return a batch of images from a single call.
	FamilyImagen = "imagen"
)

// Generation model identifiers.
const (
	ModelGeminiFlashImage = "gemini-2.5-flash-image"
	ModelImagen3          = "imagen-3.0-generate-001"
	ModelImagen4          = "imagen-4.0-generate-001"
	ModelImagen4Ultra     = "imagen-4.0-ultra-generate-001"
	ModelImagen4Fast      = "imagen-4.0-fast-generate-001"

	// ModelGeminiFlash is the text model used for analysis, prompt
	// enhancement and prompt-idea generation.
	ModelGeminiFlash = "gemini-2.5-flash"

	ModelDefault = ModelGeminiFlashImage
)

// GenerationModels lists the selectable image generation models.
var GenerationModels = []string{
	ModelGeminiFlashImage,
	ModelImagen3,
	ModelImagen4,
	ModelImagen4Ultra,
	ModelImagen4Fast,
}

// ModelDescriptor is the classification of a model identifier.
type ModelDescriptor struct {
	Family                string `json:"family"`
	SupportsEditing       bool   `json:"supports_editing"`
	SupportsMultiImageOut bool   `json:"supports_multi_image_output"`
}

var (
	geminiImageDescriptor = ModelDescriptor{Family: FamilyGemini, SupportsEditing: true}
	imagenDescriptor      = ModelDescriptor{Family: FamilyImagen, SupportsMultiImageOut: true}
)

// modelDescriptors is the explicit identifier-to-descriptor mapping.
var modelDescriptors = map[string]ModelDescriptor{
	ModelGeminiFlashImage: geminiImageDescriptor,
	ModelImagen3:          imagenDescriptor,
	ModelImagen4:          imagenDescriptor,
	ModelImagen4Ultra:     imagenDescriptor,
	ModelImagen4Fast:      imagenDescriptor,
}

// Classify maps a model identifier to its descriptor. The mapping table is
// consulted first; unlisted identifiers containing "imagen" are classified
// as the batch family, and everything else falls back to the Gemini family,
// which accepts a freeform generateContent call.
func Classify(modelID string) ModelDescriptor {
	if d, ok := modelDescriptors[modelID]; ok {
		return d
	}
	if strings.Contains(modelID, "imagen") {
		return imagenDescriptor
	}
	return geminiImageDescriptor
}
