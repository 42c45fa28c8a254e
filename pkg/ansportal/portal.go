// Package ansportal downloads the procedure annexes published on the ANS portal.
package ansportal

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
	"golang.org/x/sync/errgroup"
)

const (
	maxHTMLBodyBytes     = 4 << 20 // 4 MiB
	defaultDownloadLimit = 4
)

// Filter selects anchors whose text contains TitleKeyword and whose href
// contains LinkKeyword.
type Filter struct {
	TitleKeyword string
	LinkKeyword  string
}

// DefaultFilters match the Anexo I and Anexo II PDFs.
func DefaultFilters() []Filter {
	return []Filter{
		{TitleKeyword: "Anexo I", LinkKeyword: ".pdf"},
		{TitleKeyword: "Anexo II", LinkKeyword: ".pdf"},
	}
}

// Link is a discovered document.
type Link struct {
	Title string
	URL   string
}

// File is a downloaded document.
type File struct {
	Title   string
	Content []byte
}

// Scraper fetches the portal page and its documents through an httpclient.Client.
type Scraper struct {
	client httpclient.Client
	limit  int
}

// NewScraper builds a scraper. limit bounds concurrent downloads; values
// below one use the default.
func NewScraper(client httpclient.Client, limit int) *Scraper {
	if limit < 1 {
		limit = defaultDownloadLimit
	}
	return &Scraper{client: client, limit: limit}
}

// Discover fetches pageURL and returns the links matching filters, in filter order.
func (s *Scraper) Discover(ctx context.Context, pageURL string, filters []Filter) ([]Link, error) {
	resp, err := s.client.Do(ctx, http.MethodGet, pageURL, httpclient.RequestOptions{
		Headers: map[string]string{"Accept": "text/html"},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch portal page: %w", err)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return ExtractLinks(body, pageURL, filters)
}

// ExtractLinks applies filters to the anchors of an HTML document. Titles are
// normalized and the first link per title wins. Relative hrefs are resolved
// against base.
func ExtractLinks(html []byte, base string, filters []Filter) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	anchors := doc.Find("a[href]")
	seen := make(map[string]struct{})
	var links []Link
	for _, f := range filters {
		anchors.Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			text := a.Text()
			if !strings.Contains(text, f.TitleKeyword) || !strings.Contains(href, f.LinkKeyword) {
				return
			}
			title := normalizeTitle(text)
			if title == "" {
				return
			}
			if _, dup := seen[title]; dup {
				return
			}
			seen[title] = struct{}{}
			links = append(links, Link{Title: title, URL: resolveURL(href, base)})
		})
	}
	return links, nil
}

// Download fetches every link concurrently. Files come back in link order.
func (s *Scraper) Download(ctx context.Context, links []Link) ([]File, error) {
	files := make([]File, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, l := range links {
		g.Go(func() error {
			resp, err := s.client.Do(gctx, http.MethodGet, l.URL, httpclient.RequestOptions{
				Headers: map[string]string{"Accept": "*/*"},
			})
			if err != nil {
				return fmt.Errorf("download %q: %w", l.Title, err)
			}
			files[i] = File{Title: l.Title, Content: resp.Body()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// normalizeTitle drops dots and upper-cases the final character, so
// "Anexo I." and "Anexo i" both become "Anexo I".
func normalizeTitle(text string) string {
	title := strings.TrimSpace(strings.ReplaceAll(text, ".", ""))
	if title == "" {
		return ""
	}
	r := []rune(title)
	last := strings.ToUpper(string(r[len(r)-1]))
	return string(r[:len(r)-1]) + last
}

func resolveURL(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
