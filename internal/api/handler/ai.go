package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dafitra/prompt-to-app/internal/api/response"
	"github.com/dafitra/prompt-to-app/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AIHandler handles text generation endpoints
type AIHandler struct {
	generateService *service.GenerateService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(generateService *service.GenerateService) *AIHandler {
	return &AIHandler{generateService: generateService}
}

type generateTextRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	MaxTokens int    `json:"maxTokens" validate:"gte=0"`
}

// GenerateText forwards a prompt to the configured LLM provider
func (h *AIHandler) GenerateText(w http.ResponseWriter, r *http.Request) {
	var req generateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "prompt required")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "prompt required")
		return
	}

	text, err := h.generateService.GenerateText(r.Context(), req.Prompt, req.MaxTokens)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPrompt) {
			response.BadRequest(w, "prompt required")
			return
		}
		response.InternalError(w, "ai_error", err.Error())
		return
	}

	response.OK(w, map[string]string{"text": text})
}
