package api

import (
	"encoding/json"
	"net/http"

	"github.com/luminastudio/lumina/internal/engine"
	"github.com/luminastudio/lumina/internal/model"
)

// ---------------------------------------------------------------------------
// POST /api/generate
// ---------------------------------------------------------------------------

type generateResponse struct {
	Artifacts []model.Artifact `json:"artifacts"`
	Errors    []string         `json:"errors,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req engine.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.studio.Generate(r.Context(), req)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	resp := generateResponse{Artifacts: result.Artifacts}
	for _, slotErr := range result.SlotErrors {
		if slotErr != nil {
			resp.Errors = append(resp.Errors, slotErr.Error())
		}
	}
	if resp.Artifacts == nil {
		resp.Artifacts = []model.Artifact{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// POST /api/edit
// ---------------------------------------------------------------------------

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req engine.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	artifact, err := s.studio.Edit(r.Context(), req)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// ---------------------------------------------------------------------------
// POST /api/upscale
// ---------------------------------------------------------------------------

type upscaleRequest struct {
	Images      []engine.InputImage `json:"images"`
	AspectRatio string              `json:"aspect_ratio"`
	Model       string              `json:"model"`
}

func (s *Server) handleUpscale(w http.ResponseWriter, r *http.Request) {
	var req upscaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	artifact, err := s.studio.Upscale(r.Context(), req.Images, req.AspectRatio, req.Model)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// ---------------------------------------------------------------------------
// POST /api/analyze
// ---------------------------------------------------------------------------

type analyzeRequest struct {
	Image    engine.InputImage `json:"image"`
	Question string            `json:"question"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Image.Data) == 0 {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	text, err := s.studio.Analyze(r.Context(), req.Image, req.Question)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// ---------------------------------------------------------------------------
// POST /api/enhance
// ---------------------------------------------------------------------------

type enhanceRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	// Best-effort: always succeeds, worst case echoes the original.
	enhanced := s.studio.EnhancePrompt(r.Context(), req.Prompt)
	writeJSON(w, http.StatusOK, map[string]string{"prompt": enhanced})
}

// ---------------------------------------------------------------------------
// GET /api/templates
// ---------------------------------------------------------------------------

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	sections := model.SeedTemplates
	if r.URL.Query().Get("fresh") == "1" {
		// Degrades to the static seed set when the remote call yields nothing.
		if fresh := s.studio.SuggestTemplates(r.Context()); len(fresh) > 0 {
			sections = fresh
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// ---------------------------------------------------------------------------
// GET /api/models
// ---------------------------------------------------------------------------

type modelInfo struct {
	ID string `json:"id"`
	model.ModelDescriptor
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	infos := make([]modelInfo, 0, len(model.GenerationModels))
	for _, id := range model.GenerationModels {
		infos = append(infos, modelInfo{ID: id, ModelDescriptor: model.Classify(id)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"models": infos,
		"styles": model.StylePresets,
	})
}

// ---------------------------------------------------------------------------
// GET /api/gallery
// ---------------------------------------------------------------------------

func (s *Server) handleListGallery(w http.ResponseWriter, r *http.Request) {
	artifacts, err := s.gallery.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list gallery")
		return
	}
	if artifacts == nil {
		artifacts = []model.Artifact{}
	}
	writeJSON(w, http.StatusOK, artifacts)
}

// ---------------------------------------------------------------------------
// DELETE /api/gallery/{id}
// ---------------------------------------------------------------------------

func (s *Server) handleDeleteArtifact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	// Deleting an absent id succeeds: the end state is identical.
	if err := s.gallery.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete artifact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// DELETE /api/gallery
// ---------------------------------------------------------------------------

func (s *Server) handleClearGallery(w http.ResponseWriter, r *http.Request) {
	if err := s.gallery.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear gallery")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
