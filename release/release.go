// Package release resolves the download URL of the latest externally hosted release of a
// target, falling back to a pinned URL whenever the feed cannot help.
package release

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/remote"
	"github.com/femnad/kur/settings"
	"github.com/femnad/kur/status"
)

var (
	ErrNoMatch = errors.New("no matching asset")
)

// Asset is a resolved release artifact. URL is never empty for a valid source.
type Asset struct {
	Filename     string
	FromFallback bool
	URL          string
}

func (a Asset) String() string {
	if a.FromFallback {
		return fmt.Sprintf("%s (pinned)", a.URL)
	}
	return a.URL
}

// feedFunc lists candidate download URLs in feed order.
type feedFunc func(ctx context.Context, feed string) ([]string, error)

type Resolver struct {
	apiBase    string
	client     remote.Client
	gh         restClient
	reporter   *status.Reporter
	strategies map[string]feedFunc
}

type Option func(*Resolver)

// WithAPIBase points GitHub feeds at a different API root.
func WithAPIBase(apiBase string) Option {
	return func(r *Resolver) {
		r.apiBase = strings.TrimSuffix(apiBase, "/")
	}
}

// WithRESTClient queries GitHub feeds through an authenticated client.
func WithRESTClient(gh restClient) Option {
	return func(r *Resolver) {
		r.gh = gh
	}
}

func NewResolver(client remote.Client, reporter *status.Reporter, opts ...Option) *Resolver {
	r := &Resolver{apiBase: githubAPIBase, client: client, reporter: reporter}
	r.strategies = map[string]feedFunc{
		entity.FeedGithub: r.githubAssets,
		entity.FeedPage:   r.pageLinks,
		entity.FeedText:   r.textURLs,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewDefaultResolver authenticates GitHub feeds with the gh CLI token when enabled in s and
// one is available, querying anonymously otherwise.
func NewDefaultResolver(s settings.Settings, client remote.Client, reporter *status.Reporter) *Resolver {
	var opts []Option
	if s.UseGHClient {
		gh, err := NewRESTClient(client.HTTPClient())
		if err == nil {
			opts = append(opts, WithRESTClient(gh))
		} else {
			internal.Log.Debugf("Falling back to anonymous GitHub queries: %v", err)
		}
	}

	return NewResolver(client, reporter, opts...)
}

func firstMatch(candidates []string, pattern string) (string, bool) {
	for _, candidate := range candidates {
		if strings.Contains(candidate, pattern) {
			return candidate, true
		}
	}
	return "", false
}

func (r *Resolver) lookup(ctx context.Context, src entity.ReleaseSource) (string, error) {
	strategy, ok := r.strategies[src.GetKind()]
	if !ok {
		return "", fmt.Errorf("unknown release feed type %s", src.GetKind())
	}

	candidates, err := strategy(ctx, src.Feed)
	if err != nil {
		return "", err
	}

	match, ok := firstMatch(candidates, src.Match)
	if !ok {
		return "", fmt.Errorf("%w for %s among %d candidates of %s", ErrNoMatch, src.Match, len(candidates), src)
	}

	return match, nil
}

func (r *Resolver) asset(ctx context.Context, name, url, fallback string, fromFallback bool) Asset {
	synthetic := remote.SyntheticFilename(entity.Slug(name), fallback)
	meta := remote.ResponseMeta{FinalURL: url}
	if !remote.Recognized(remote.URLFilename(url)) {
		headMeta, err := r.client.Head(ctx, url)
		if err != nil {
			internal.Log.Debugf("Unable to inspect %s for a filename: %v", url, err)
		} else {
			meta = headMeta
		}
	}

	filename := remote.DeriveFilename(meta, synthetic)
	return Asset{Filename: filename, FromFallback: fromFallback, URL: url}
}

// Resolve returns the first feed URL containing the source's match pattern, or the pinned
// fallback with a warning when querying fails or nothing matches.
func (r *Resolver) Resolve(ctx context.Context, name string, src entity.ReleaseSource) Asset {
	url, err := r.lookup(ctx, src)
	if err != nil {
		r.reporter.Warning("Unable to resolve latest release of %s, using pinned %s: %v", name, src.Fallback,
			err)
		return r.asset(ctx, name, src.Fallback, src.Fallback, true)
	}

	internal.Log.Debugf("Resolved latest release of %s as %s", name, url)
	return r.asset(ctx, name, url, src.Fallback, false)
}
