package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	apperrors "github.com/bobarin/podcaster/internal/errors"
	"github.com/bobarin/podcaster/internal/models"
)

const (
	namuWikiDefaultPrefix = "https://namu.wiki/"
	namuWikiUserAgent     = "Mozilla/5.0 (compatible; podcaster/1.0)"

	// Page markup markers of the article body
	namuWikiContentSelector = `div[class="ndDq6gtT jDOGykqY"]`
	namuWikiSectionSelector = `div[class="c0JwjYul +UZZK0Af"], div[class="cPIcBa-P _1qJ2Vzes"]`
	namuWikiAdSelector      = `div.yzOgysK4`

	// namuWikiBlockSeparator separates the text of consecutive sections.
	namuWikiBlockSeparator = "\n\n"
)

// ContentFetcher loads a source article.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*models.SourceDocument, error)
}

// NamuWikiFetcher scrapes article title and body text from NamuWiki pages.
type NamuWikiFetcher struct {
	prefix string
	client *http.Client
}

// Ensure NamuWikiFetcher implements ContentFetcher at compile time.
var _ ContentFetcher = (*NamuWikiFetcher)(nil)

func NewNamuWikiFetcher(prefix string) *NamuWikiFetcher {
	if prefix == "" {
		prefix = namuWikiDefaultPrefix
	}
	return &NamuWikiFetcher{
		prefix: prefix,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidateURL rejects URLs outside the configured wiki.
func (f *NamuWikiFetcher) ValidateURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return apperrors.InvalidInput("url is required", nil)
	}
	if !strings.HasPrefix(url, f.prefix) {
		return apperrors.InvalidInput(fmt.Sprintf("URL must start with '%s'", f.prefix), nil)
	}
	return nil
}

func (f *NamuWikiFetcher) Fetch(ctx context.Context, url string) (*models.SourceDocument, error) {
	if err := f.ValidateURL(url); err != nil {
		return nil, err
	}

	log.Printf("[Scraper] Fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, apperrors.Scraping("failed to fetch content", err)
	}
	req.Header.Set("User-Agent", namuWikiUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Scraping("failed to fetch content", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.Scraping("failed to fetch content",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.Scraping("failed to scrape content", err)
	}

	title, body, err := extractNamuWiki(doc)
	if err != nil {
		return nil, apperrors.Scraping("failed to scrape content", err)
	}

	log.Printf("[Scraper] Scraped %q (%d chars)", title, len(body))
	return &models.SourceDocument{Title: title, Body: body}, nil
}

func extractNamuWiki(doc *goquery.Document) (string, string, error) {
	title, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if !ok {
		return "", "", fmt.Errorf("title meta tag not found")
	}
	title = strings.TrimSpace(title)

	content := doc.Find(namuWikiContentSelector).First()
	if content.Length() == 0 {
		return "", "", fmt.Errorf("main content div not found")
	}

	sections := content.Find(namuWikiSectionSelector)
	if sections.Length() == 0 {
		return "", "", fmt.Errorf("content divs not found")
	}

	var blocks []string
	sections.Each(func(_ int, s *goquery.Selection) {
		s.Find(namuWikiAdSelector).Remove()
		if text := joinedText(s.Nodes[0], "\n"); text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		return "", "", fmt.Errorf("content extraction failed")
	}

	return title, strings.Join(blocks, namuWikiBlockSeparator), nil
}

// joinedText collects every non-blank text node under n, trimmed, joined
// with sep. Script and style contents are skipped.
func joinedText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}
