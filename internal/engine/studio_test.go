package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/luminastudio/lumina/internal/model"
	"github.com/luminastudio/lumina/internal/store"
)

// fakeClient lets each test script the dispatcher behaviour per method.
type fakeClient struct {
	mu            sync.Mutex
	generateCalls int

	generateBatch func(modelID, prompt, aspectRatio string, count int) ([]ImagePayload, error)
	generateOne   func(call int) (ImagePayload, error)
	editImage     func(modelID string, images []InputImage, instruction, aspectRatio string) (ImagePayload, error)
	analyzeImage  func(question string) (string, error)
	complete      func(prompt string) (string, error)
	promptIdeas   func() ([]model.PromptTemplateSection, error)
}

func (f *fakeClient) GenerateBatch(_ context.Context, modelID, prompt, aspectRatio string, count int) ([]ImagePayload, error) {
	return f.generateBatch(modelID, prompt, aspectRatio, count)
}

func (f *fakeClient) GenerateOne(_ context.Context, _, _, _ string) (ImagePayload, error) {
	f.mu.Lock()
	call := f.generateCalls
	f.generateCalls++
	f.mu.Unlock()
	return f.generateOne(call)
}

func (f *fakeClient) EditImage(_ context.Context, modelID string, images []InputImage, instruction, aspectRatio string) (ImagePayload, error) {
	return f.editImage(modelID, images, instruction, aspectRatio)
}

func (f *fakeClient) AnalyzeImage(_ context.Context, _ string, _ InputImage, question string) (string, error) {
	return f.analyzeImage(question)
}

func (f *fakeClient) Complete(_ context.Context, _, prompt string) (string, error) {
	return f.complete(prompt)
}

func (f *fakeClient) PromptIdeas(_ context.Context, _ string) ([]model.PromptTemplateSection, error) {
	return f.promptIdeas()
}

func newTestGallery(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func pngPayload(b byte) ImagePayload {
	return ImagePayload{Data: []byte{b}, MIMEType: "image/png"}
}

func TestGenerate_BatchFamily(t *testing.T) {
	gallery := newTestGallery(t)
	client := &fakeClient{
		generateBatch: func(modelID, prompt, aspectRatio string, count int) ([]ImagePayload, error) {
			if modelID != model.ModelImagen4 {
				t.Errorf("modelID = %q, want %q", modelID, model.ModelImagen4)
			}
			if count != 3 {
				t.Errorf("count = %d, want 3", count)
			}
			return []ImagePayload{pngPayload(1), pngPayload(2), pngPayload(3)}, nil
		},
		generateOne: func(int) (ImagePayload, error) {
			t.Error("single-call dispatch used for a batch-capable model")
			return ImagePayload{}, nil
		},
	}
	studio := NewStudio(client, gallery)

	result, err := studio.Generate(context.Background(), GenerateRequest{
		Prompt:      "a red fox",
		AspectRatio: model.AspectSquare,
		Model:       model.ModelImagen4,
		Count:       3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Artifacts) != 3 {
		t.Fatalf("artifacts len = %d, want 3", len(result.Artifacts))
	}
	// Response order preserved through persistence.
	for i, a := range result.Artifacts {
		if len(a.Data) != 1 || a.Data[0] != byte(i+1) {
			t.Errorf("artifact[%d].Data = %v, want [%d]", i, a.Data, i+1)
		}
		if a.Kind != model.KindGenerated {
			t.Errorf("artifact[%d].Kind = %q, want generated", i, a.Kind)
		}
		if a.ID == "" || a.CreatedAt == "" {
			t.Errorf("artifact[%d] missing store-assigned fields: %+v", i, a)
		}
	}

	all, _ := gallery.ListAll(context.Background())
	if len(all) != 3 {
		t.Errorf("gallery len = %d, want 3", len(all))
	}
}

func TestGenerate_FanOutWaitsForAll(t *testing.T) {
	gallery := newTestGallery(t)
	client := &fakeClient{
		// The first dispatched call finishes last; the operation must still
		// settle every call and return all results.
		generateOne: func(call int) (ImagePayload, error) {
			if call == 0 {
				time.Sleep(50 * time.Millisecond)
			}
			return pngPayload(byte(call)), nil
		},
	}
	studio := NewStudio(client, gallery)

	result, err := studio.Generate(context.Background(), GenerateRequest{
		Prompt: "a red fox",
		Model:  model.ModelGeminiFlashImage,
		Count:  2,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Artifacts) != 2 {
		t.Fatalf("artifacts len = %d, want 2", len(result.Artifacts))
	}
	if client.generateCalls != 2 {
		t.Errorf("dispatch calls = %d, want 2", client.generateCalls)
	}
	// Both distinct sub-call results made it through, none duplicated.
	seen := map[byte]bool{}
	for _, a := range result.Artifacts {
		seen[a.Data[0]] = true
		if a.Prompt != "a red fox" {
			t.Errorf("Prompt = %q, want %q", a.Prompt, "a red fox")
		}
	}
	if !seen[0] || !seen[1] {
		t.Errorf("results = %v, want both sub-call payloads", seen)
	}

	all, _ := gallery.ListAll(context.Background())
	if len(all) != 2 {
		t.Errorf("gallery len = %d, want 2", len(all))
	}
}

func TestGenerate_AtomicBatchFailure(t *testing.T) {
	gallery := newTestGallery(t)
	remoteErr := &RemoteCallError{Op: "generate", Model: model.ModelGeminiFlashImage, Err: errors.New("boom")}
	client := &fakeClient{
		// One sub-call fails fast, the others succeed.
		generateOne: func(call int) (ImagePayload, error) {
			if call == 1 {
				return ImagePayload{}, remoteErr
			}
			time.Sleep(20 * time.Millisecond)
			return pngPayload(byte(call)), nil
		},
	}
	studio := NewStudio(client, gallery)

	_, err := studio.Generate(context.Background(), GenerateRequest{
		Prompt: "a red fox",
		Model:  model.ModelGeminiFlashImage,
		Count:  3,
	})
	if err == nil {
		t.Fatal("expected error from failing sub-call")
	}
	if !IsRemoteCallError(err) {
		t.Errorf("err = %v, want RemoteCallError", err)
	}

	// All-or-nothing: completed sibling results are discarded, not persisted.
	all, _ := gallery.ListAll(context.Background())
	if len(all) != 0 {
		t.Errorf("gallery len = %d, want 0", len(all))
	}
}

func TestGenerate_PartialPolicy(t *testing.T) {
	gallery := newTestGallery(t)
	client := &fakeClient{
		generateOne: func(call int) (ImagePayload, error) {
			if call == 0 {
				return ImagePayload{}, errors.New("slot failed")
			}
			return pngPayload(byte(call)), nil
		},
	}
	studio := NewStudio(client, gallery, WithBatchPolicy(PolicyPartial))

	result, err := studio.Generate(context.Background(), GenerateRequest{
		Prompt: "a red fox",
		Model:  model.ModelGeminiFlashImage,
		Count:  3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("artifacts len = %d, want 2", len(result.Artifacts))
	}
	var failed int
	for _, e := range result.SlotErrors {
		if e != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed slots = %d, want 1", failed)
	}

	all, _ := gallery.ListAll(context.Background())
	if len(all) != 2 {
		t.Errorf("gallery len = %d, want 2", len(all))
	}
}

func TestGenerate_ComposesPrompt(t *testing.T) {
	gallery := newTestGallery(t)
	var gotPrompt string
	client := &fakeClient{
		generateBatch: func(_, prompt, _ string, _ int) ([]ImagePayload, error) {
			gotPrompt = prompt
			return []ImagePayload{pngPayload(1)}, nil
		},
	}
	studio := NewStudio(client, gallery)

	result, err := studio.Generate(context.Background(), GenerateRequest{
		Prompt:         "a red fox",
		Style:          "cinematic",
		NegativePrompt: "blurry",
		Model:          model.ModelImagen4,
		Count:          1,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := "Cinematic style. a red fox --no blurry"
	if gotPrompt != want {
		t.Errorf("dispatched prompt = %q, want %q", gotPrompt, want)
	}
	if result.Artifacts[0].Prompt != want {
		t.Errorf("persisted prompt = %q, want %q", result.Artifacts[0].Prompt, want)
	}
}

func TestGenerate_Validation(t *testing.T) {
	studio := NewStudio(&fakeClient{}, newTestGallery(t))

	if _, err := studio.Generate(context.Background(), GenerateRequest{}); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("empty prompt err = %v, want ErrEmptyPrompt", err)
	}
	_, err := studio.Generate(context.Background(), GenerateRequest{Prompt: "x", AspectRatio: "2:3"})
	if !errors.Is(err, ErrBadAspectRatio) {
		t.Errorf("bad ratio err = %v, want ErrBadAspectRatio", err)
	}
}

func TestEdit(t *testing.T) {
	gallery := newTestGallery(t)
	client := &fakeClient{
		editImage: func(modelID string, images []InputImage, instruction, aspectRatio string) (ImagePayload, error) {
			if len(images) != 2 {
				t.Errorf("images len = %d, want 2", len(images))
			}
			if instruction != "add a hat" {
				t.Errorf("instruction = %q", instruction)
			}
			return pngPayload(9), nil
		},
	}
	studio := NewStudio(client, gallery)

	artifact, err := studio.Edit(context.Background(), EditRequest{
		Images:      []InputImage{{Data: []byte{1}, MIMEType: "image/png"}, {Data: []byte{2}, MIMEType: "image/jpeg"}},
		Prompt:      "add a hat",
		AspectRatio: model.AspectSquare,
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if artifact.Kind != model.KindEdited {
		t.Errorf("Kind = %q, want edited", artifact.Kind)
	}
	if artifact.Prompt != "add a hat" {
		t.Errorf("Prompt = %q, want %q", artifact.Prompt, "add a hat")
	}

	all, _ := gallery.ListAll(context.Background())
	if len(all) != 1 {
		t.Errorf("gallery len = %d, want 1", len(all))
	}
}

func TestEdit_ImageCountValidation(t *testing.T) {
	studio := NewStudio(&fakeClient{}, newTestGallery(t))

	_, err := studio.Edit(context.Background(), EditRequest{Prompt: "x"})
	if !errors.Is(err, ErrImageCount) {
		t.Errorf("no images err = %v, want ErrImageCount", err)
	}

	four := make([]InputImage, 4)
	_, err = studio.Edit(context.Background(), EditRequest{Prompt: "x", Images: four})
	if !errors.Is(err, ErrImageCount) {
		t.Errorf("four images err = %v, want ErrImageCount", err)
	}
}

func TestEdit_UnsupportedModelNotPersisted(t *testing.T) {
	gallery := newTestGallery(t)
	client := &fakeClient{
		editImage: func(modelID string, _ []InputImage, _, _ string) (ImagePayload, error) {
			return ImagePayload{}, ErrUnsupportedModel
		},
	}
	studio := NewStudio(client, gallery)

	_, err := studio.Edit(context.Background(), EditRequest{
		Images: []InputImage{{Data: []byte{1}, MIMEType: "image/png"}},
		Prompt: "x",
		Model:  model.ModelImagen4,
	})
	if !errors.Is(err, ErrUnsupportedModel) {
		t.Errorf("err = %v, want ErrUnsupportedModel", err)
	}

	all, _ := gallery.ListAll(context.Background())
	if len(all) != 0 {
		t.Errorf("gallery len = %d, want 0", len(all))
	}
}

func TestUpscale_PersistsLabelNotInstruction(t *testing.T) {
	gallery := newTestGallery(t)
	var sentInstruction string
	client := &fakeClient{
		editImage: func(_ string, _ []InputImage, instruction, _ string) (ImagePayload, error) {
			sentInstruction = instruction
			return pngPayload(5), nil
		},
	}
	studio := NewStudio(client, gallery)

	artifact, err := studio.Upscale(context.Background(),
		[]InputImage{{Data: []byte{1}, MIMEType: "image/png"}},
		model.AspectSquare, model.ModelGeminiFlashImage,
	)
	if err != nil {
		t.Fatalf("Upscale: %v", err)
	}
	if sentInstruction == UpscaleLabel {
		t.Error("verbose instruction not sent to the model")
	}
	if sentInstruction == "" {
		t.Error("no instruction sent")
	}
	if artifact.Prompt != UpscaleLabel {
		t.Errorf("persisted prompt = %q, want %q", artifact.Prompt, UpscaleLabel)
	}
}

func TestAnalyze_NotPersisted(t *testing.T) {
	gallery := newTestGallery(t)
	client := &fakeClient{
		analyzeImage: func(question string) (string, error) {
			return "a fox in the snow", nil
		},
	}
	studio := NewStudio(client, gallery)

	text, err := studio.Analyze(context.Background(), InputImage{Data: []byte{1}, MIMEType: "image/png"}, "what is this?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "a fox in the snow" {
		t.Errorf("text = %q", text)
	}

	all, _ := gallery.ListAll(context.Background())
	if len(all) != 0 {
		t.Errorf("gallery len = %d, want 0: analysis must not be persisted", len(all))
	}
}

func TestEnhancePrompt_BestEffort(t *testing.T) {
	studio := NewStudio(&fakeClient{
		complete: func(string) (string, error) { return "", errors.New("remote down") },
	}, newTestGallery(t))

	if got := studio.EnhancePrompt(context.Background(), "a red fox"); got != "a red fox" {
		t.Errorf("EnhancePrompt on failure = %q, want original", got)
	}

	studio = NewStudio(&fakeClient{
		complete: func(string) (string, error) { return "", nil },
	}, newTestGallery(t))
	if got := studio.EnhancePrompt(context.Background(), "a red fox"); got != "a red fox" {
		t.Errorf("EnhancePrompt on empty = %q, want original", got)
	}

	studio = NewStudio(&fakeClient{
		complete: func(prompt string) (string, error) { return "a majestic red fox at dawn", nil },
	}, newTestGallery(t))
	if got := studio.EnhancePrompt(context.Background(), "a red fox"); got != "a majestic red fox at dawn" {
		t.Errorf("EnhancePrompt = %q", got)
	}
}

func TestSuggestTemplates_BestEffort(t *testing.T) {
	studio := NewStudio(&fakeClient{
		promptIdeas: func() ([]model.PromptTemplateSection, error) { return nil, errors.New("remote down") },
	}, newTestGallery(t))
	if got := studio.SuggestTemplates(context.Background()); len(got) != 0 {
		t.Errorf("SuggestTemplates on failure = %v, want empty", got)
	}

	want := []model.PromptTemplateSection{{Category: "Fantasy", Prompts: []string{"a", "b"}}}
	studio = NewStudio(&fakeClient{
		promptIdeas: func() ([]model.PromptTemplateSection, error) { return want, nil },
	}, newTestGallery(t))
	got := studio.SuggestTemplates(context.Background())
	if len(got) != 1 || got[0].Category != "Fantasy" {
		t.Errorf("SuggestTemplates = %v", got)
	}
}
