package snack

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/go-github/v68/github"
	"github.com/rs/zerolog/log"
)

// Status distinguishes the three outcomes of the optional enrichment so
// callers and tests can tell "not configured" from "tried and failed".
type Status string

const (
	StatusEnriched Status = "enriched"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Result of a publish attempt. Err is set only for StatusFailed.
type Result struct {
	Status   Status
	SnackURL string
	GistURL  string
	Err      error
}

const (
	gistSourceFile  = "App.js"
	gistDescription = "AI generated Snack"

	// Minimal manifest so the Snack runtime treats the gist as a project.
	gistManifest = "{\n  \"name\": \"ai-snack\",\n  \"main\": \"App.js\"\n}"

	snackEmbedTemplate = "https://snack.expo.dev/embed?platform=android&sourceUrl=%s"
	rawGistTemplate    = "https://gist.githubusercontent.com/%s/%s/raw/%s"
)

// gistCreator is the slice of the GitHub API the publisher needs.
type gistCreator interface {
	Create(ctx context.Context, gist *github.Gist) (*github.Gist, *github.Response, error)
}

// Publisher uploads generated source to a public gist and derives an Expo
// Snack embed link from the raw-content URL.
type Publisher struct {
	token string
	owner string
	gists gistCreator
}

// NewPublisher creates a publisher. With an empty token or owner it stays
// inert and every Publish call reports StatusSkipped.
func NewPublisher(token, owner string) *Publisher {
	p := &Publisher{token: token, owner: owner}
	if token != "" {
		p.gists = github.NewClient(nil).WithAuthToken(token).Gists
	}
	return p
}

// Publish uploads the source and builds the embed link. It never returns
// an error: the enrichment is best-effort and a failure only degrades the
// session response.
func (p *Publisher) Publish(ctx context.Context, source string) Result {
	if source == "" || p.token == "" || p.owner == "" {
		return Result{Status: StatusSkipped}
	}

	gist := &github.Gist{
		Description: github.Ptr(gistDescription),
		Public:      github.Ptr(true),
		Files: map[github.GistFilename]github.GistFile{
			gistSourceFile: {Content: github.Ptr(source)},
			"package.json": {Content: github.Ptr(gistManifest)},
		},
	}

	created, _, err := p.gists.Create(ctx, gist)
	if err != nil {
		log.Warn().Err(err).Msg("Snack/gist creation failed")
		return Result{Status: StatusFailed, Err: err}
	}

	rawURL := fmt.Sprintf(rawGistTemplate, p.owner, created.GetID(), gistSourceFile)
	return Result{
		Status:   StatusEnriched,
		SnackURL: fmt.Sprintf(snackEmbedTemplate, url.QueryEscape(rawURL)),
		GistURL:  created.GetHTMLURL(),
	}
}
