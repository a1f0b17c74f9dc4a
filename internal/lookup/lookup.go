// Package lookup fetches a short description of an unknown folder name
// from the DuckDuckGo instant-answer API. Results are advisory only:
// whatever comes back is graded moderate, never safe.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/macsweep/macsweep/internal/entry"
)

// maxSummaryLen bounds the description shown next to a folder row.
const maxSummaryLen = 150

// Client queries the instant-answer endpoint.
type Client struct {
	http *http.Client
	base string
}

// New returns a Client against the public API.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: 8 * time.Second},
		base: "https://api.duckduckgo.com",
	}
}

// NewWithBase is for tests pointing at a local server.
func NewWithBase(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{http: hc, base: base}
}

type apiResponse struct {
	AbstractText  string `json:"AbstractText"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// Describe looks name up and returns a classification label built from
// the best available summary. A lookup that finds nothing returns an
// empty label and no error; network and decode failures are errors.
func (c *Client) Describe(ctx context.Context, name string) (entry.Label, error) {
	q := url.Values{}
	q.Set("q", name+" macOS folder")
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/?"+q.Encode(), nil)
	if err != nil {
		return entry.Label{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return entry.Label{}, fmt.Errorf("lookup %q: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return entry.Label{}, fmt.Errorf("lookup %q: status %d", name, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entry.Label{}, fmt.Errorf("lookup %q: decode: %w", name, err)
	}

	summary := body.AbstractText
	if summary == "" {
		for _, rt := range body.RelatedTopics {
			if rt.Text != "" {
				summary = rt.Text
				break
			}
		}
	}
	if summary == "" {
		return entry.Label{}, nil
	}
	return entry.Label{
		Description: summarize(summary, maxSummaryLen),
		Risk:        entry.RiskModerate,
	}, nil
}

// summarize truncates s to max runes at a word boundary.
func summarize(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
