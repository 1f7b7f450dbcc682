package preview

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists rendered documents under a public directory. One file
// per session, overwritten in place on re-render. Files are not removed
// when their session expires; a shared link keeps resolving.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Filename returns the deterministic document name for a session.
func Filename(sessionID string) string {
	return "preview-" + sessionID + ".html"
}

// Write stores the document and returns its filename.
func (w *Writer) Write(sessionID, doc string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create preview dir: %w", err)
	}

	name := Filename(sessionID)
	if err := os.WriteFile(filepath.Join(w.dir, name), []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("failed to write preview document: %w", err)
	}
	return name, nil
}

// Dir returns the directory documents are written to.
func (w *Writer) Dir() string {
	return w.dir
}
