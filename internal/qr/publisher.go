package qr

import (
	"encoding/base64"
	"fmt"

	"github.com/dafitra/prompt-to-app/internal/preview"
	qrcode "github.com/skip2/go-qrcode"
)

// Publisher encodes a session's shareable link into a scannable image.
// No caching: every call recomputes the PNG.
type Publisher struct {
	baseURL   string
	size      int
	urlMaxLen int
}

// NewPublisher creates a publisher. urlMaxLen caps a caller-preferred URL;
// anything at or over the cap falls back to the default preview link (QR
// capacity and URL-bar practicality).
func NewPublisher(baseURL string, size, urlMaxLen int) *Publisher {
	return &Publisher{baseURL: baseURL, size: size, urlMaxLen: urlMaxLen}
}

// Link is a scannable URL and its image encoding.
type Link struct {
	URL          string `json:"url"`
	ImageDataURL string `json:"imageDataUrl"`
}

// DefaultURL points at the session's static preview document.
func (p *Publisher) DefaultURL(sessionID string) string {
	return fmt.Sprintf("%s/public/%s", p.baseURL, preview.Filename(sessionID))
}

// Publish chooses the URL and encodes it as a PNG data URL.
func (p *Publisher) Publish(sessionID, preferredURL string) (*Link, error) {
	url := p.DefaultURL(sessionID)
	if preferredURL != "" && len(preferredURL) < p.urlMaxLen {
		url = preferredURL
	}

	png, err := qrcode.Encode(url, qrcode.Medium, p.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}

	return &Link{
		URL:          url,
		ImageDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}
