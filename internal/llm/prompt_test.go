package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_WithDefaults(t *testing.T) {
	req := Request{Prompt: "hi"}.WithDefaults()
	assert.Equal(t, DefaultTemperature, req.Temperature)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)

	req = Request{Prompt: "hi", Temperature: 0.9, MaxTokens: 50}.WithDefaults()
	assert.Equal(t, 0.9, req.Temperature)
	assert.Equal(t, 50, req.MaxTokens)
}

func TestTrimCompletion(t *testing.T) {
	assert.Equal(t, "```jsx\nx\n```", TrimCompletion("\n```jsx\nx\n```\n\n"))
	assert.Equal(t, "", TrimCompletion("   \n\t"))
}
