package llm

import "strings"

// SystemPrompt steers providers toward output the preview renderer can
// classify: full source inside a fenced jsx block.
const SystemPrompt = "You are an expert developer. When generating React Native UI, return full code inside fenced ```jsx blocks."

// Generation defaults applied when the request leaves them unset.
const (
	DefaultTemperature = 0.6
	DefaultMaxTokens   = 1200
)

// WithDefaults fills unset generation parameters.
func (r Request) WithDefaults() Request {
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// TrimCompletion normalizes a raw completion before it is returned to the
// caller.
func TrimCompletion(text string) string {
	return strings.TrimSpace(text)
}
