// Package remote fetches release metadata and artifacts over HTTP.
package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/femnad/mare"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	userAgentKey          = "user-agent"
	userAgent             = "femnad/kur"
	utfPrefix             = "UTF-8''"
)

var (
	okStatuses = []int{http.StatusOK}
)

type Response struct {
	Body               io.ReadCloser
	ContentDisposition string
	// URL is the final URL after following redirects.
	URL string
}

func (r Response) Meta() ResponseMeta {
	return ResponseMeta{ContentDisposition: r.ContentDisposition, FinalURL: r.URL}
}

// Client bounds connection setup but never the transfer itself, so large downloads are
// only interrupted through their context.
type Client struct {
	http *http.Client
}

func NewClient(connectTimeout time.Duration) Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout

	return Client{http: &http.Client{Transport: transport}}
}

// HTTPClient exposes the underlying client for libraries accepting one.
func (c Client) HTTPClient() *http.Client {
	return c.http
}

func getAttachmentFilename(header http.Header) string {
	contentDispositionValue := header.Get("Content-Disposition")
	for _, value := range strings.Split(contentDispositionValue, ";") {
		value = strings.TrimSpace(value)
		if value == "attachment" || value == "inline" {
			continue
		}

		key, filename, found := strings.Cut(value, "=")
		if !found || !strings.HasPrefix(strings.ToLower(key), "filename") {
			continue
		}

		filename = strings.Trim(filename, `"`)
		if strings.HasPrefix(filename, utfPrefix) {
			return strings.TrimPrefix(filename, utfPrefix)
		}

		return filename
	}

	return ""
}

func (c Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(userAgentKey, userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	statusCode := resp.StatusCode
	if !mare.Contains(okStatuses, statusCode) {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("error reading response, got status %d from URL %s", statusCode, url)
	}

	return resp, nil
}

func responseMeta(resp *http.Response, url string) ResponseMeta {
	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return ResponseMeta{ContentDisposition: getAttachmentFilename(resp.Header), FinalURL: finalURL}
}

func (c Client) ReadResponseBody(ctx context.Context, url string) (Response, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return Response{}, err
	}

	meta := responseMeta(resp, url)
	return Response{Body: resp.Body, ContentDisposition: meta.ContentDisposition, URL: meta.FinalURL}, nil
}

// Head follows redirects for url without transferring the body and returns what the final
// response reveals about the payload name.
func (c Client) Head(ctx context.Context, url string) (ResponseMeta, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return ResponseMeta{}, err
	}
	defer resp.Body.Close()

	return responseMeta(resp, url), nil
}

func (c Client) ReadResponseBytes(ctx context.Context, url string) ([]byte, error) {
	response, err := c.ReadResponseBody(ctx, url)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	return io.ReadAll(response.Body)
}

// Download writes the body of url to target, truncating any existing file.
func (c Client) Download(ctx context.Context, url, target string) error {
	if url == "" {
		return fmt.Errorf("download URL is empty")
	}
	if target == "" {
		return fmt.Errorf("download target is empty")
	}

	resp, err := c.ReadResponseBody(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(0o644))
	if err != nil {
		return err
	}

	_, err = io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("error downloading %s: %w", url, err)
	}

	return out.Close()
}
