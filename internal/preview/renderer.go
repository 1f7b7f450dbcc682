package preview

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Input is what the renderer classifies: an optional trusted HTML body,
// or AI-produced code in whatever shape the model returned it.
type Input struct {
	Title string
	HTML  string
	Code  string
}

// The pipeline is heuristic pattern matching, not a parser. Each step
// either claims the input and produces a full document, or falls through
// to the next. Misclassification surfaces as an in-page error string from
// the Babel wrapper, never as an error here.
type step struct {
	name  string
	claim func(Input) (string, bool)
}

var pipeline = []step{
	{name: "trusted-html", claim: renderTrustedHTML},
	{name: "fenced-dom", claim: renderFencedDOM},
	{name: "fenced-component", claim: renderFencedComponent},
	{name: "raw-code", claim: renderRawCode},
}

var (
	fenceRe = regexp.MustCompile("(?is)```(?:html|jsx|tsx|js|react|xml)?\\n(.*?)```")

	// DOM-ish tags inside a fenced block mean the block is renderable
	// markup as-is.
	fencedDOMRe = regexp.MustCompile(`(?i)<html|<div|</div>|<button|<section|<main`)
	rawDOMRe    = regexp.MustCompile(`(?i)<\s*div|<\s*button|<\s*section|</\s*div>`)

	// Unfenced code that smells like React or React Native.
	reactHintRe = regexp.MustCompile(`(?i)import .*react|React\.|View|Text|TouchableOpacity`)

	importLineRe  = regexp.MustCompile(`(?m)^import .*\n?`)
	styleSheetRe  = regexp.MustCompile(`(?s)StyleSheet\.create\(.*?\);?`)
	viewTagRe     = regexp.MustCompile(`\bView\b`)
	textTagRe     = regexp.MustCompile(`\bText\b`)
	touchableRe   = regexp.MustCompile(`\bTouchableOpacity\b`)
	exportFuncRe  = regexp.MustCompile(`export default\s+function\s*\w*`)
	exportValueRe = regexp.MustCompile(`export default\s+`)
)

// Render turns an arbitrary AI response into a servable HTML document.
// Pure and deterministic: the same input always yields the same bytes.
func Render(in Input) string {
	for _, s := range pipeline {
		if doc, ok := s.claim(in); ok {
			return doc
		}
	}
	return renderFallback(in)
}

func renderTrustedHTML(in Input) (string, bool) {
	if strings.TrimSpace(in.HTML) == "" {
		return "", false
	}
	return wrapDocument(in.Title, in.HTML), true
}

func renderFencedDOM(in Input) (string, bool) {
	fenced, ok := extractFenced(in.Code)
	if !ok || !fencedDOMRe.MatchString(fenced) {
		return "", false
	}
	return wrapDocument(in.Title, fenced), true
}

func renderFencedComponent(in Input) (string, bool) {
	fenced, ok := extractFenced(in.Code)
	if !ok {
		return "", false
	}
	return wrapComponent(in.Title, transformNativeSource(fenced)), true
}

func renderRawCode(in Input) (string, bool) {
	raw := in.Code
	if raw == "" {
		return "", false
	}
	if rawDOMRe.MatchString(raw) {
		return wrapDocument(in.Title, raw), true
	}
	if reactHintRe.MatchString(raw) {
		return wrapComponent(in.Title, transformNativeSource(raw)), true
	}
	return "", false
}

func renderFallback(in Input) string {
	code := in.Code
	if code == "" {
		code = in.HTML
	}
	body := "<h3>AI Output (code)</h3><pre>" + html.EscapeString(code) + "</pre>" +
		"<p>To render this preview as a UI, the AI should return an HTML/JSX code block. " +
		"Try asking for a <code>&lt;div&gt;...&lt;/div&gt;</code> snippet or a fenced <code>```html</code> block.</p>"
	return wrapDocument(in.Title, body)
}

// extractFenced returns the content of the first fenced code block.
func extractFenced(text string) (string, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// transformNativeSource rewrites React Native source into web-ish JSX:
// import lines go, one primitive maps to one DOM tag, style registration
// goes. Best-effort by design.
func transformNativeSource(code string) string {
	out := importLineRe.ReplaceAllString(code, "")
	out = viewTagRe.ReplaceAllString(out, "div")
	out = textTagRe.ReplaceAllString(out, "span")
	out = touchableRe.ReplaceAllString(out, "button")
	out = styleSheetRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// mountableComponent normalizes a snippet into a PreviewApp declaration
// the wrapper page can mount.
func mountableComponent(snippet string) string {
	if strings.Contains(snippet, "export default") {
		snippet = exportFuncRe.ReplaceAllString(snippet, "const PreviewApp = function")
		return exportValueRe.ReplaceAllString(snippet, "const PreviewApp = ")
	}
	return "const PreviewApp = () => (" + snippet + ");"
}

func wrapDocument(title, body string) string {
	if title == "" {
		title = "Preview"
	}
	return `<!doctype html><html><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/><title>` +
		html.EscapeString(title) + `</title></head><body>` + body + `</body></html>`
}

// wrapComponent embeds the snippet in a page that loads React, ReactDOM
// and the Babel standalone transpiler from unpkg and mounts it on load.
// A mount failure prints the error in place of the UI.
func wrapComponent(title, snippet string) string {
	if title == "" {
		title = "AI Preview"
	}
	return fmt.Sprintf(`<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width,initial-scale=1"/>
  <title>%s</title>
  <style>body{margin:0;font-family:system-ui;background:#fff;color:#111;padding:16px;}</style>
  <script src="https://unpkg.com/react@18/umd/react.development.js"></script>
  <script src="https://unpkg.com/react-dom@18/umd/react-dom.development.js"></script>
  <script src="https://unpkg.com/@babel/standalone/babel.min.js"></script>
</head>
<body>
  <div id="root"></div>

  <script type="text/babel">
    try {
      %s
      ReactDOM.createRoot(document.getElementById('root')).render(<PreviewApp />);
    } catch (err) {
      document.getElementById('root').innerText = 'Preview render error: ' + err.message;
      console.error(err);
    }
  </script>
</body>
</html>`, html.EscapeString(title), mountableComponent(snippet))
}
