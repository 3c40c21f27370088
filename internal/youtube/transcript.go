package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const timedTextBaseURL = "https://video.google.com/timedtext"

type TranscriptItem struct {
	Text       string
	OffsetMs   int
	DurationMs int
}

type TranscriptClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTranscriptClient() *TranscriptClient {
	return &TranscriptClient{
		baseURL:    timedTextBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type timedTextResponse struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch retrieves the caption track for a video, in sequence order.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) ([]TranscriptItem, error) {
	log.Printf("[YouTube] Fetching transcript for: %s", videoID)

	q := url.Values{}
	q.Set("lang", "en")
	q.Set("v", videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build transcript request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch video transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch video transcript: unexpected status %d", resp.StatusCode)
	}

	var body timedTextResponse
	if err := xml.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fetch video transcript: no transcript available: %w", err)
	}

	if len(body.Texts) == 0 {
		return nil, fmt.Errorf("fetch video transcript: no transcript available for %s", videoID)
	}

	items := make([]TranscriptItem, 0, len(body.Texts))
	for _, t := range body.Texts {
		start, _ := strconv.ParseFloat(t.Start, 64)
		dur, _ := strconv.ParseFloat(t.Dur, 64)
		items = append(items, TranscriptItem{
			Text:       html.UnescapeString(t.Body),
			OffsetMs:   int(start * 1000),
			DurationMs: int(dur * 1000),
		})
	}

	log.Printf("[YouTube] Transcript fetched successfully: %d items", len(items))
	return items, nil
}

// FormatTranscript flattens transcript items into plain text in sequence
// order.
func FormatTranscript(items []TranscriptItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Text
	}
	return strings.Join(parts, " ")
}
