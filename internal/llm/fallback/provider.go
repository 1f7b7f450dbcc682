package fallback

import (
	"context"
	"time"

	"github.com/dafitra/prompt-to-app/internal/llm"
)

// canned is the completion served when no real provider is configured, so
// local development works without API keys. It is a valid fenced jsx block
// the preview pipeline can render.
const canned = "```jsx\n" +
	"import React from 'react';\n" +
	"import { View, Text } from 'react-native';\n\n" +
	"export default function App(){\n" +
	"  return <View style={{flex:1,alignItems:'center',justifyContent:'center'}}><Text>Hello from fallback</Text></View>;\n" +
	"}\n" +
	"```"

// Provider is a keyless development provider returning a fixed snippet.
type Provider struct{}

// NewProvider creates the fallback provider.
func NewProvider() llm.Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "fallback"
}

func (p *Provider) AvailableModels() []string {
	return []string{"canned"}
}

func (p *Provider) DefaultModel() string {
	return "canned"
}

func (p *Provider) IsConfigured() bool {
	return true
}

// GenerateText returns the canned snippet regardless of the prompt.
func (p *Provider) GenerateText(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	start := time.Now()
	return &llm.Response{
		Text:      canned,
		Model:     "canned",
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
