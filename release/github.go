package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/auth"

	"github.com/femnad/kur/internal"
)

const (
	githubAPIBase = "https://api.github.com"
	githubHost    = "github.com"
	latestRelease = "repos/%s/releases/latest"
)

type restClient interface {
	DoWithContext(ctx context.Context, method string, path string, body io.Reader, response interface{}) error
}

type githubAsset struct {
	BrowserDownloadURL string `json:"browser_download_url"`
	Name               string `json:"name"`
}

type githubRelease struct {
	Assets  []githubAsset `json:"assets"`
	TagName string        `json:"tag_name"`
}

// NewRESTClient returns an authenticated GitHub client if a token can be found in the
// environment or the gh config.
func NewRESTClient(httpClient *http.Client) (*api.RESTClient, error) {
	token, source := auth.TokenForHost(githubHost)
	if token == "" {
		return nil, fmt.Errorf("no GitHub token available")
	}
	internal.Log.Debugf("Using GitHub token from %s", source)

	return api.NewRESTClient(api.ClientOptions{
		AuthToken: token,
		Host:      githubHost,
		Transport: httpClient.Transport,
	})
}

// getRepo accepts either owner/repo or a URL of the form https://github.com/<owner>/<repo>/...
func getRepo(feed string) (string, error) {
	if !strings.Contains(feed, "://") {
		if strings.Count(feed, "/") != 1 {
			return "", fmt.Errorf("unable to determine GitHub repo from %s", feed)
		}
		return feed, nil
	}

	fields := strings.Split(feed, "/")
	if len(fields) < 5 || fields[3] == "" || fields[4] == "" {
		return "", fmt.Errorf("unable to determine GitHub repo from URL %s", feed)
	}

	return fmt.Sprintf("%s/%s", fields[3], fields[4]), nil
}

func (r *Resolver) latestRelease(ctx context.Context, repo string) (githubRelease, error) {
	var release githubRelease
	path := fmt.Sprintf(latestRelease, repo)

	if r.gh != nil {
		err := r.gh.DoWithContext(ctx, http.MethodGet, path, nil, &release)
		return release, err
	}

	resp, err := r.client.ReadResponseBytes(ctx, fmt.Sprintf("%s/%s", r.apiBase, path))
	if err != nil {
		return release, err
	}

	err = json.Unmarshal(resp, &release)
	return release, err
}

func (r *Resolver) githubAssets(ctx context.Context, feed string) ([]string, error) {
	repo, err := getRepo(feed)
	if err != nil {
		return nil, err
	}

	release, err := r.latestRelease(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("error querying latest release of %s: %w", repo, err)
	}
	internal.Log.Debugf("Latest release of %s is %s", repo, release.TagName)

	urls := make([]string, 0, len(release.Assets))
	for _, asset := range release.Assets {
		urls = append(urls, asset.BrowserDownloadURL)
	}

	return urls, nil
}
