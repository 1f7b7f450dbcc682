package handler

import (
	"net/http"

	"github.com/dafitra/prompt-to-app/internal/api/response"
	"github.com/dafitra/prompt-to-app/internal/llm"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]bool{"ok": true})
}

// ListLLMProviders returns registered LLM providers and their models
func ListLLMProviders(llmRouter *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        llmRouter.GetProvidersInfo(),
			"default_provider": llmRouter.DefaultProvider(),
		})
	}
}
