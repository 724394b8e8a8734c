// Package wiki fetches short encyclopedia summaries for spoken
// lookups.
package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// Client reads the Wikipedia REST summary endpoint.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{http: httpClient, baseURL: defaultBaseURL}
}

// Summary returns roughly two sentences about topic. Any failure is
// a LookupFailure for the caller to log and speak away.
func (c *Client) Summary(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("empty topic")
	}

	title := url.PathEscape(strings.ReplaceAll(topic, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/page/summary/"+title, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary request: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	extract := gjson.GetBytes(body, "extract").String()
	if extract == "" {
		return "", fmt.Errorf("no summary for %q", topic)
	}

	return firstSentences(extract, 2), nil
}

// firstSentences cuts text after n sentence-ending periods, keeping
// the whole text when it has fewer.
func firstSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// skip decimal points and abbreviation-like runs
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(text[:i+1])
		}
	}
	return strings.TrimSpace(text)
}
