package model

// Artifact kind constants
const (
	KindGenerated = "generated"
	KindEdited    = "edited"
)

// Aspect ratio constants
const (
	AspectSquare        = "1:1"
	AspectPortrait      = "3:4"
	AspectLandscape     = "4:3"
	AspectTallPortrait  = "9:16"
	AspectWideLandscape = "16:9"
	AspectRatioDefault  = AspectSquare
)

// aspectRatios is the fixed set of supported output aspect ratios.
var aspectRatios = map[string]bool{
	AspectSquare:        true,
	AspectPortrait:      true,
	AspectLandscape:     true,
	AspectTallPortrait:  true,
	AspectWideLandscape: true,
}

// ValidAspectRatio reports whether ratio is one of the supported values.
// The empty string is valid and means "model default".
func ValidAspectRatio(ratio string) bool {
	return ratio == "" || aspectRatios[ratio]
}

// Artifact is one persisted generated or edited image together with its
// metadata. ID and CreatedAt are assigned by the store at insert time and
// the record is immutable afterwards; updates are modeled as delete+insert.
type Artifact struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	MIMEType    string `json:"mime_type,omitempty"`
	Data        []byte `json:"data,omitempty"`
	Text        string `json:"text,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// NewArtifact creates an image Artifact ready for insertion. The store
// fills in ID and CreatedAt.
func NewArtifact(kind, prompt, modelID, aspectRatio, mimeType string, data []byte) Artifact {
	return Artifact{
		Kind:        kind,
		Prompt:      prompt,
		Model:       modelID,
		AspectRatio: aspectRatio,
		MIMEType:    mimeType,
		Data:        data,
	}
}
