// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/nixgames/trivia-rooms/middleware"
	"github.com/nixgames/trivia-rooms/models"
	"github.com/nixgames/trivia-rooms/questions"
)

type QuestionsHandler struct {
	gen questions.Generator
}

func NewQuestionsHandler(gen questions.Generator) *QuestionsHandler {
	return &QuestionsHandler{gen: gen}
}

// GetCatalog handles GET /catalog
func (h *QuestionsHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.CatalogResponse{
		AIModels: models.AIModels,
		Themes:   models.Themes,
	})
}

// GenerateQuestions handles POST /generate-questions
func (h *QuestionsHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Theme == "" && !(req.GameMode == models.ModeCustom && req.ShouldGenerateTheme) &&
		req.GameMode != models.ModePersonality {
		middleware.ErrorResponse(w, http.StatusBadRequest, "theme is required")
		return
	}
	if req.Count < models.MinQuestionCount || req.Count > models.MaxQuestionCount {
		middleware.ErrorResponse(w, http.StatusBadRequest, "count must be between 1 and 20")
		return
	}
	if !req.Difficulty.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown difficulty")
		return
	}

	slog.Info("generating questions",
		"theme", req.Theme, "difficulty", req.Difficulty,
		"count", req.Count, "mode", req.GameMode, "model", req.AIModel)

	resp, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		// Generator-level errors are validation problems; model
		// failures were already downgraded to the fallback bank.
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
