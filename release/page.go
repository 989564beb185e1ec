package release

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
)

const (
	linkQuery = "//a[@href]"
	// Prose punctuation that the URL pattern swallows at the end of a match.
	urlTrailers = ".,;:!?)]}"
)

var (
	urlRegex = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// pageLinks returns the href values of a landing page, made absolute against the final URL
// of the page.
func (r *Resolver) pageLinks(ctx context.Context, feed string) ([]string, error) {
	resp, err := r.client.ReadResponseBody(ctx, feed)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := htmlquery.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	nodes, err := htmlquery.QueryAll(doc, linkQuery)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(resp.URL)
	if err != nil {
		return nil, err
	}

	var links []string
	for _, node := range nodes {
		href := htmlquery.SelectAttr(node, "href")
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		links = append(links, base.ResolveReference(ref).String())
	}

	return links, nil
}

func (r *Resolver) textURLs(ctx context.Context, feed string) ([]string, error) {
	body, err := r.client.ReadResponseBytes(ctx, feed)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, match := range urlRegex.FindAllString(string(body), -1) {
		urls = append(urls, strings.TrimRight(match, urlTrailers))
	}

	return urls, nil
}
