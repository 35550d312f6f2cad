package model

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		modelID string
		want    ModelDescriptor
	}{
		{ModelGeminiFlashImage, ModelDescriptor{Family: FamilyGemini, SupportsEditing: true}},
		{ModelImagen3, ModelDescriptor{Family: FamilyImagen, SupportsMultiImageOut: true}},
		{ModelImagen4, ModelDescriptor{Family: FamilyImagen, SupportsMultiImageOut: true}},
		{ModelImagen4Ultra, ModelDescriptor{Family: FamilyImagen, SupportsMultiImageOut: true}},
		{ModelImagen4Fast, ModelDescriptor{Family: FamilyImagen, SupportsMultiImageOut: true}},
		// Unlisted imagen identifiers fall back to the batch family.
		{"imagen-5.0-preview", ModelDescriptor{Family: FamilyImagen, SupportsMultiImageOut: true}},
		// Everything else defaults to the single-call family.
		{"gemini-3-pro-image-preview", ModelDescriptor{Family: FamilyGemini, SupportsEditing: true}},
		{"some-unknown-model", ModelDescriptor{Family: FamilyGemini, SupportsEditing: true}},
		{"", ModelDescriptor{Family: FamilyGemini, SupportsEditing: true}},
	}

	for _, tt := range tests {
		got := Classify(tt.modelID)
		if got != tt.want {
			t.Errorf("Classify(%q) = %+v, want %+v", tt.modelID, got, tt.want)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for _, id := range append([]string{"weird-model-x"}, GenerationModels...) {
		first := Classify(id)
		for i := 0; i < 3; i++ {
			if got := Classify(id); got != first {
				t.Fatalf("Classify(%q) not deterministic: %+v then %+v", id, first, got)
			}
		}
	}
}

func TestValidAspectRatio(t *testing.T) {
	for _, r := range []string{"", "1:1", "3:4", "4:3", "9:16", "16:9"} {
		if !ValidAspectRatio(r) {
			t.Errorf("ValidAspectRatio(%q) = false, want true", r)
		}
	}
	for _, r := range []string{"2:3", "21:9", "square", "1x1"} {
		if ValidAspectRatio(r) {
			t.Errorf("ValidAspectRatio(%q) = true, want false", r)
		}
	}
}

func TestStyleLabel(t *testing.T) {
	if got := StyleLabel("cinematic"); got != "Cinematic" {
		t.Errorf("StyleLabel(cinematic) = %q, want Cinematic", got)
	}
	if got := StyleLabel("none"); got != "" {
		t.Errorf("StyleLabel(none) = %q, want empty", got)
	}
	if got := StyleLabel("not-a-style"); got != "" {
		t.Errorf("StyleLabel(not-a-style) = %q, want empty", got)
	}
}
