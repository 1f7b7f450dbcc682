package snack

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGists struct {
	created *github.Gist
	got     *github.Gist
	err     error
}

func (f *fakeGists) Create(ctx context.Context, gist *github.Gist) (*github.Gist, *github.Response, error) {
	f.got = gist
	return f.created, nil, f.err
}

func TestPublish_SkippedWithoutConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		owner  string
		source string
	}{
		{"no token", "", "octocat", "code"},
		{"no owner", "tok", "", "code"},
		{"no source", "tok", "octocat", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPublisher(tt.token, tt.owner)
			res := p.Publish(context.Background(), tt.source)
			assert.Equal(t, StatusSkipped, res.Status)
			assert.Empty(t, res.SnackURL)
			assert.NoError(t, res.Err)
		})
	}
}

func TestPublish_Enriched(t *testing.T) {
	fake := &fakeGists{created: &github.Gist{
		ID:      github.Ptr("deadbeef"),
		HTMLURL: github.Ptr("https://gist.github.com/octocat/deadbeef"),
	}}
	p := &Publisher{token: "tok", owner: "octocat", gists: fake}

	res := p.Publish(context.Background(), "export default function App(){}")

	require.Equal(t, StatusEnriched, res.Status)
	assert.Equal(t, "https://gist.github.com/octocat/deadbeef", res.GistURL)
	assert.Equal(t,
		"https://snack.expo.dev/embed?platform=android&sourceUrl="+
			"https%3A%2F%2Fgist.githubusercontent.com%2Foctocat%2Fdeadbeef%2Fraw%2FApp.js",
		res.SnackURL)

	// The uploaded file set is the source plus the minimal manifest.
	require.NotNil(t, fake.got)
	assert.True(t, fake.got.GetPublic())
	files := fake.got.Files
	require.Len(t, files, 2)
	source := files["App.js"]
	assert.Equal(t, "export default function App(){}", source.GetContent())
	manifest := files["package.json"]
	assert.Contains(t, manifest.GetContent(), "\"main\": \"App.js\"")
}

func TestPublish_FailedIsNonFatal(t *testing.T) {
	fake := &fakeGists{err: errors.New("rate limited")}
	p := &Publisher{token: "tok", owner: "octocat", gists: fake}

	res := p.Publish(context.Background(), "code")

	assert.Equal(t, StatusFailed, res.Status)
	assert.Error(t, res.Err)
	assert.Empty(t, res.SnackURL)
	assert.Empty(t, res.GistURL)
}
