package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/luminastudio/lumina/internal/model"
	"github.com/luminastudio/lumina/internal/store"
)

// BatchPolicy controls how a multi-image generation reacts to a failing
// sub-call.
type BatchPolicy string

const (
	// PolicyAtomic fails the whole batch on any sub-call failure and
	// persists nothing from it.
	PolicyAtomic BatchPolicy = "atomic"

	// PolicyPartial persists and returns the successful slots; failures are
	// reported per slot.
	PolicyPartial BatchPolicy = "partial"
)

const (
	maxBatchImages     = 4
	maxReferenceImages = 3
)

var (
	// ErrEmptyPrompt is returned when a generation or edit request carries
	// no prompt text.
	ErrEmptyPrompt = errors.New("prompt is required")

	// ErrBadAspectRatio is returned for aspect ratios outside the supported
	// set.
	ErrBadAspectRatio = errors.New("unsupported aspect ratio")

	// ErrImageCount is returned when an edit request carries no reference
	// images or more than the supported maximum.
	ErrImageCount = errors.New("between 1 and 3 reference images required")
)

// Studio orchestrates generation operations: it composes prompts, routes
// requests per model family, fans out parallel calls for multi-image
// generation, and persists every successful artifact into the gallery.
type Studio struct {
	client    Client
	gallery   store.Gallery
	textModel string
	policy    BatchPolicy
	logger    *slog.Logger
}

// StudioOption configures a Studio.
type StudioOption func(*Studio)

// WithTextModel sets the model used for analysis, prompt enhancement and
// prompt ideas.
func WithTextModel(modelID string) StudioOption {
	return func(s *Studio) { s.textModel = modelID }
}

// WithBatchPolicy sets the multi-image failure policy.
func WithBatchPolicy(policy BatchPolicy) StudioOption {
	return func(s *Studio) {
		if policy == PolicyPartial {
			s.policy = PolicyPartial
		} else {
			s.policy = PolicyAtomic
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) StudioOption {
	return func(s *Studio) { s.logger = logger }
}

// NewStudio creates a Studio over the given model client and gallery.
func NewStudio(client Client, gallery store.Gallery, opts ...StudioOption) *Studio {
	s := &Studio{
		client:    client,
		gallery:   gallery,
		textModel: model.ModelGeminiFlash,
		policy:    PolicyAtomic,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateRequest describes one logical multi-image generation.
type GenerateRequest struct {
	Prompt         string `json:"prompt"`
	Style          string `json:"style"`
	NegativePrompt string `json:"negative_prompt"`
	AspectRatio    string `json:"aspect_ratio"`
	Model          string `json:"model"`
	Count          int    `json:"count"`
}

// BatchResult is the outcome of Generate. Artifacts are persisted records in
// request slot order (failed slots omitted). SlotErrors is index-aligned
// with the requested count and only populated under PolicyPartial; a nil
// entry means the slot succeeded.
type BatchResult struct {
	Artifacts  []model.Artifact
	SlotErrors []error
}

// Generate produces Count images for one prompt. Batch-capable models get a
// single call requesting Count outputs; single-call models are dispatched
// Count times concurrently and the results are reordered by request slot
// before persistence. Under PolicyAtomic any sub-call failure fails the
// whole operation and nothing from the batch is persisted.
func (s *Studio) Generate(ctx context.Context, req GenerateRequest) (*BatchResult, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if !model.ValidAspectRatio(req.AspectRatio) {
		return nil, fmt.Errorf("%w: %q", ErrBadAspectRatio, req.AspectRatio)
	}

	modelID := req.Model
	if modelID == "" {
		modelID = model.ModelDefault
	}
	count := req.Count
	if count < 1 {
		count = 1
	}
	if count > maxBatchImages {
		count = maxBatchImages
	}

	finalPrompt := composePrompt(req.Prompt, req.Style, req.NegativePrompt)
	desc := model.Classify(modelID)

	s.logger.Debug("starting generation",
		"model", modelID,
		"family", desc.Family,
		"count", count,
		"prompt_length", len(finalPrompt),
	)

	payloads, slotErrs, err := s.dispatchGenerate(ctx, desc, modelID, finalPrompt, req.AspectRatio, count)
	if err != nil {
		s.logger.Error("generation failed", "model", modelID, "error", err.Error())
		return nil, err
	}

	result := &BatchResult{SlotErrors: slotErrs}
	for _, p := range payloads {
		stored, err := s.gallery.Insert(ctx, model.NewArtifact(
			model.KindGenerated, finalPrompt, modelID, req.AspectRatio, p.MIMEType, p.Data,
		))
		if err != nil {
			return nil, fmt.Errorf("persist artifact: %w", err)
		}
		result.Artifacts = append(result.Artifacts, stored)
	}

	s.logger.Info("generation completed",
		"model", modelID,
		"requested", count,
		"persisted", len(result.Artifacts),
	)
	return result, nil
}

// dispatchGenerate runs the family-appropriate dispatch and returns the
// successful payloads in request slot order.
func (s *Studio) dispatchGenerate(ctx context.Context, desc model.ModelDescriptor, modelID, prompt, aspectRatio string, count int) ([]ImagePayload, []error, error) {
	if desc.SupportsMultiImageOut {
		payloads, err := s.client.GenerateBatch(ctx, modelID, prompt, aspectRatio, count)
		if err != nil {
			return nil, nil, err
		}
		return payloads, nil, nil
	}

	// Single-call family: one dispatch per requested image, in parallel.
	// Slot i of the results corresponds to the i-th logical request
	// regardless of completion order.
	slots := make([]ImagePayload, count)
	slotErrs := make([]error, count)

	var g errgroup.Group
	for i := 0; i < count; i++ {
		g.Go(func() error {
			payload, err := s.client.GenerateOne(ctx, modelID, prompt, aspectRatio)
			if err != nil {
				slotErrs[i] = err
				return err
			}
			slots[i] = payload
			return nil
		})
	}

	// Wait settles all in-flight calls before deciding the outcome.
	waitErr := g.Wait()

	if s.policy == PolicyAtomic {
		if waitErr != nil {
			return nil, nil, waitErr
		}
		return slots, nil, nil
	}

	payloads := make([]ImagePayload, 0, count)
	for i, err := range slotErrs {
		if err != nil {
			s.logger.Warn("generation slot failed", "model", modelID, "slot", i, "error", err.Error())
			continue
		}
		payloads = append(payloads, slots[i])
	}
	return payloads, slotErrs, nil
}

// EditRequest describes one edit call: 1-3 reference images (primary first)
// plus the instruction.
type EditRequest struct {
	Images      []InputImage `json:"images"`
	Prompt      string       `json:"prompt"`
	AspectRatio string       `json:"aspect_ratio"`
	Model       string       `json:"model"`
}

// Edit runs a single edit call and persists the result as an edited
// artifact.
func (s *Studio) Edit(ctx context.Context, req EditRequest) (model.Artifact, error) {
	return s.edit(ctx, req, req.Prompt)
}

// Upscale is sugar over Edit with a fixed enhancement instruction. The
// persisted prompt is a short label rather than the verbose instruction.
func (s *Studio) Upscale(ctx context.Context, images []InputImage, aspectRatio, modelID string) (model.Artifact, error) {
	req := EditRequest{
		Images:      images,
		Prompt:      upscaleInstruction,
		AspectRatio: aspectRatio,
		Model:       modelID,
	}
	return s.edit(ctx, req, UpscaleLabel)
}

func (s *Studio) edit(ctx context.Context, req EditRequest, storedPrompt string) (model.Artifact, error) {
	if req.Prompt == "" {
		return model.Artifact{}, ErrEmptyPrompt
	}
	if len(req.Images) < 1 || len(req.Images) > maxReferenceImages {
		return model.Artifact{}, fmt.Errorf("%w: got %d", ErrImageCount, len(req.Images))
	}
	if !model.ValidAspectRatio(req.AspectRatio) {
		return model.Artifact{}, fmt.Errorf("%w: %q", ErrBadAspectRatio, req.AspectRatio)
	}

	modelID := req.Model
	if modelID == "" {
		modelID = model.ModelDefault
	}

	payload, err := s.client.EditImage(ctx, modelID, req.Images, req.Prompt, req.AspectRatio)
	if err != nil {
		s.logger.Error("edit failed", "model", modelID, "error", err.Error())
		return model.Artifact{}, err
	}

	stored, err := s.gallery.Insert(ctx, model.NewArtifact(
		model.KindEdited, storedPrompt, modelID, req.AspectRatio, payload.MIMEType, payload.Data,
	))
	if err != nil {
		return model.Artifact{}, fmt.Errorf("persist artifact: %w", err)
	}

	s.logger.Info("edit completed", "model", modelID, "input_images", len(req.Images))
	return stored, nil
}

// Analyze answers a question about one image. The result is ephemeral and
// never persisted.
func (s *Studio) Analyze(ctx context.Context, image InputImage, question string) (string, error) {
	text, err := s.client.AnalyzeImage(ctx, s.textModel, image, question)
	if err != nil {
		s.logger.Error("analysis failed", "model", s.textModel, "error", err.Error())
		return "", err
	}
	return text, nil
}

// EnhancePrompt rewrites a prompt into a more descriptive one. Enhancement
// is best-effort: on any failure the original prompt comes back unchanged.
func (s *Studio) EnhancePrompt(ctx context.Context, original string) string {
	enhanced, err := s.client.Complete(ctx, s.textModel, buildEnhancePrompt(original))
	if err != nil || enhanced == "" {
		if err != nil {
			s.logger.Warn("prompt enhancement failed", "error", err.Error())
		}
		return original
	}
	return enhanced
}

// SuggestTemplates fetches a fresh prompt template collection. On failure it
// returns an empty collection so callers can keep their current templates.
func (s *Studio) SuggestTemplates(ctx context.Context) []model.PromptTemplateSection {
	sections, err := s.client.PromptIdeas(ctx, s.textModel)
	if err != nil {
		s.logger.Warn("template suggestion failed", "error", err.Error())
		return nil
	}
	return sections
}
