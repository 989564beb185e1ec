package release

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/femnad/kur/entity"
	"github.com/femnad/kur/remote"
	"github.com/femnad/kur/status"
)

const (
	batRelease = `{
  "tag_name": "v0.24.0",
  "assets": [
    {"name": "bat-musl_0.24.0_amd64.deb", "browser_download_url": "%[1]s/dl/bat-musl_0.24.0_amd64.deb"},
    {"name": "bat_0.24.0_amd64.deb", "browser_download_url": "%[1]s/dl/bat_0.24.0_amd64.deb"},
    {"name": "bat_0.24.0_arm64.deb", "browser_download_url": "%[1]s/dl/bat_0.24.0_arm64.deb"}
  ]
}`
	landingPage = `<html><body>
<a href="/docs">Docs</a>
<a href="/files/discord-0.0.41.deb">Linux deb</a>
<a href="https://mirror.example.com/discord-0.0.41.tar.gz">Linux tar.gz</a>
</body></html>`
	textFeed = `latest: https://example.com/releases/zoom_amd64.deb
previous: https://example.com/releases/zoom_5.16_amd64.deb`
	proseFeed = `Get the build (https://example.com/a/tool_2.0_amd64.deb).
Mirrors: https://example.com/b/tool_2.0_arm64.deb, https://example.com/c/tool_2.0_i386.deb.`
	latestFeed = `stable: %[1]s/download/linux-x64-latest`
	editorFeed = `stable: %[1]s/get/editor`
)

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/sharkdp/bat/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.ReplaceAll(batRelease, "%[1]s", srv.URL)))
	})
	mux.HandleFunc("/repos/broken/tool/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(landingPage))
	})
	mux.HandleFunc("/zoom.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(textFeed))
	})
	mux.HandleFunc("/prose.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(proseFeed))
	})
	mux.HandleFunc("/latest.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.ReplaceAll(latestFeed, "%[1]s", srv.URL)))
	})
	mux.HandleFunc("/editor.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.ReplaceAll(editorFeed, "%[1]s", srv.URL)))
	})
	mux.HandleFunc("/get/editor", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/files/editor", http.StatusFound)
	})
	mux.HandleFunc("/files/editor", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="editor_2.1_amd64.deb"`)
		_, _ = w.Write([]byte("deb"))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestResolve(t *testing.T) {
	color.NoColor = true
	srv := feedServer(t)

	tests := []struct {
		name        string
		src         entity.ReleaseSource
		want        Asset
		wantWarning bool
	}{
		{
			name: "First matching GitHub asset",
			src: entity.ReleaseSource{Feed: "sharkdp/bat", Match: "_amd64.deb",
				Fallback: "https://example.com/bat_0.23.0_amd64.deb"},
			want: Asset{Filename: "bat-musl_0.24.0_amd64.deb", URL: srv.URL + "/dl/bat-musl_0.24.0_amd64.deb"},
		},
		{
			name: "GitHub feed as repository URL",
			src: entity.ReleaseSource{Feed: "https://github.com/sharkdp/bat/releases", Match: "bat_0.24.0_arm64",
				Fallback: "https://example.com/bat_0.23.0_arm64.deb"},
			want: Asset{Filename: "bat_0.24.0_arm64.deb", URL: srv.URL + "/dl/bat_0.24.0_arm64.deb"},
		},
		{
			name: "No match falls back",
			src: entity.ReleaseSource{Feed: "sharkdp/bat", Match: "riscv64",
				Fallback: "https://example.com/bat_0.23.0_riscv64.deb"},
			want: Asset{Filename: "bat_0.23.0_riscv64.deb", FromFallback: true,
				URL: "https://example.com/bat_0.23.0_riscv64.deb"},
			wantWarning: true,
		},
		{
			name: "Query failure falls back",
			src: entity.ReleaseSource{Feed: "broken/tool", Match: "amd64",
				Fallback: "https://example.com/tool_amd64.deb"},
			want:        Asset{Filename: "tool_amd64.deb", FromFallback: true, URL: "https://example.com/tool_amd64.deb"},
			wantWarning: true,
		},
		{
			name: "Relative link on a landing page",
			src: entity.ReleaseSource{Feed: srv.URL + "/download", Kind: entity.FeedPage, Match: ".deb",
				Fallback: "https://example.com/discord-0.0.40.deb"},
			want: Asset{Filename: "discord-0.0.41.deb", URL: srv.URL + "/files/discord-0.0.41.deb"},
		},
		{
			name: "Text feed",
			src: entity.ReleaseSource{Feed: srv.URL + "/zoom.txt", Kind: entity.FeedText, Match: "amd64.deb",
				Fallback: "https://example.com/zoom_5.15_amd64.deb"},
			want: Asset{Filename: "zoom_amd64.deb", URL: "https://example.com/releases/zoom_amd64.deb"},
		},
		{
			name: "Fallback without a recognizable name gets a synthetic one",
			src: entity.ReleaseSource{Feed: srv.URL + "/missing", Kind: entity.FeedText, Match: "deb",
				Fallback: srv.URL + "/latest/download"},
			want: Asset{Filename: "test-tool.download", FromFallback: true,
				URL: srv.URL + "/latest/download"},
			wantWarning: true,
		},
		{
			name: "Text feed URL in parentheses",
			src: entity.ReleaseSource{Feed: srv.URL + "/prose.txt", Kind: entity.FeedText, Match: "amd64",
				Fallback: "https://example.com/tool_1.0_amd64.deb"},
			want: Asset{Filename: "tool_2.0_amd64.deb", URL: "https://example.com/a/tool_2.0_amd64.deb"},
		},
		{
			name: "Text feed URL followed by a comma",
			src: entity.ReleaseSource{Feed: srv.URL + "/prose.txt", Kind: entity.FeedText, Match: "arm64",
				Fallback: "https://example.com/tool_1.0_arm64.deb"},
			want: Asset{Filename: "tool_2.0_arm64.deb", URL: "https://example.com/b/tool_2.0_arm64.deb"},
		},
		{
			name: "Text feed URL ending a sentence",
			src: entity.ReleaseSource{Feed: srv.URL + "/prose.txt", Kind: entity.FeedText, Match: "i386",
				Fallback: "https://example.com/tool_1.0_i386.deb"},
			want: Asset{Filename: "tool_2.0_i386.deb", URL: "https://example.com/c/tool_2.0_i386.deb"},
		},
		{
			name: "Resolved URL without a name does not borrow the pinned filename",
			src: entity.ReleaseSource{Feed: srv.URL + "/latest.txt", Kind: entity.FeedText, Match: "linux-x64",
				Fallback: "https://example.com/v1.0/tool_1.0_amd64.deb"},
			want: Asset{Filename: "test-tool.deb", URL: srv.URL + "/download/linux-x64-latest"},
		},
		{
			name: "Resolved URL named by its attachment header",
			src: entity.ReleaseSource{Feed: srv.URL + "/editor.txt", Kind: entity.FeedText, Match: "editor",
				Fallback: "https://example.com/editor_2.0_amd64.deb"},
			want: Asset{Filename: "editor_2.1_amd64.deb", URL: srv.URL + "/get/editor"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			reporter := status.NewReporter(&out)
			resolver := NewResolver(remote.NewClient(remote.DefaultConnectTimeout), reporter,
				WithAPIBase(srv.URL))

			got := resolver.Resolve(context.Background(), "Test Tool", tt.src)
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
			if got.URL == "" {
				t.Errorf("Resolve() returned an empty URL")
			}
			if warned := reporter.Count(status.Warning) == 1; warned != tt.wantWarning {
				t.Errorf("Resolve() warning = %v, want %v, output: %s", warned, tt.wantWarning, out.String())
			}
		})
	}
}

func TestGetRepo(t *testing.T) {
	tests := []struct {
		name    string
		feed    string
		want    string
		wantErr bool
	}{
		{name: "Short form", feed: "junegunn/fzf", want: "junegunn/fzf"},
		{name: "URL", feed: "https://github.com/junegunn/fzf/releases/latest", want: "junegunn/fzf"},
		{name: "Too short", feed: "https://github.com/junegunn", wantErr: true},
		{name: "Not a repo", feed: "fzf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getRepo(tt.feed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("getRepo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("getRepo() = %v, want %v", got, tt.want)
			}
		})
	}
}
