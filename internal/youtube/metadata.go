package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

const dataAPIBaseURL = "https://www.googleapis.com/youtube/v3"

var ErrVideoNotFound = errors.New("video not found")

// AccessError signals a quota or authorization failure from the Data API.
// Its message is surfaced verbatim into the blog record on failure.
type AccessError struct {
	Msg string
}

func (e *AccessError) Error() string {
	return e.Msg
}

type VideoMetadata struct {
	VideoID      string
	Title        string
	ThumbnailURL string
	Duration     string
	ChannelTitle string
}

type MetadataClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewMetadataClient(apiKey string) *MetadataClient {
	return &MetadataClient{
		apiKey:     apiKey,
		baseURL:    dataAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type videoListResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Fetch retrieves snippet and contentDetails for a video from the YouTube
// Data API.
func (c *MetadataClient) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	log.Printf("[YouTube] Fetching video metadata for: %s", videoID)

	q := url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("id", videoID)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch video metadata: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, &AccessError{Msg: "YouTube API Error: Invalid API key or API not enabled"}
	case http.StatusForbidden:
		return nil, &AccessError{Msg: "YouTube API Error: Access forbidden, quota exceeded or key lacks permissions"}
	default:
		return nil, fmt.Errorf("fetch video metadata: unexpected status %d", resp.StatusCode)
	}

	var body videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}

	if len(body.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := body.Items[0]
	thumbnail := item.Snippet.Thumbnails.High.URL
	if thumbnail == "" {
		thumbnail = item.Snippet.Thumbnails.Default.URL
	}
	title := item.Snippet.Title
	if title == "" {
		title = "Untitled"
	}
	channel := item.Snippet.ChannelTitle
	if channel == "" {
		channel = "Unknown"
	}

	meta := &VideoMetadata{
		VideoID:      videoID,
		Title:        title,
		ThumbnailURL: thumbnail,
		Duration:     FormatDuration(item.ContentDetails.Duration),
		ChannelTitle: channel,
	}

	log.Printf("[YouTube] Metadata fetched successfully: %s", meta.Title)
	return meta, nil
}

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// FormatDuration converts an ISO 8601 duration (PT1H2M3S) into H:MM:SS, or
// M:SS when under an hour.
func FormatDuration(iso string) string {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return "0:00"
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
