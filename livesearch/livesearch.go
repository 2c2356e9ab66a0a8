package livesearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// maxResults caps how many search hits feed the oracle prompt.
const maxResults = 8

// Client scrapes DuckDuckGo's HTML endpoint for event mentions around a
// venue. It never fails past its boundary: any error comes back as an
// in-band snippet so the forecast prompt still has something to chew on.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Fetch returns a "Title/Snippet" digest of the first search results for
// the venue's event query.
func (c *Client) Fetch(ctx context.Context, venue string) string {
	query := fmt.Sprintf("%s Pune fest hackathon event schedule 2026", venue)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "Live search unavailable: " + err.Error()
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "Live search unavailable: " + err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Live search unavailable: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "Live search unavailable: " + err.Error()
	}

	var sb strings.Builder
	doc.Find(".result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxResults {
			return false
		}
		title := strings.TrimSpace(sel.Find(".result__title").Text())
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())
		if title != "" || snippet != "" {
			fmt.Fprintf(&sb, "Title: %s\nSnippet: %s\n---\n", title, snippet)
		}
		return true
	})

	if sb.Len() == 0 {
		return "No reliable live data found."
	}
	return sb.String()
}
