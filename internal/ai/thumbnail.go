package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const imagesBaseURL = "https://api.openai.com/v1"

const maxThumbnailPromptLen = 1000

type ThumbnailClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewThumbnailClient(apiKey string) *ThumbnailClient {
	return &ThumbnailClient{
		apiKey:     apiKey,
		baseURL:    imagesBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate produces a thumbnail image URL for the given prompt. It never
// returns an error: any generation failure, including a missing API key,
// falls back to a deterministic placeholder URL.
func (c *ThumbnailClient) Generate(ctx context.Context, prompt, title string) (string, error) {
	if c.apiKey == "" {
		log.Println("[AI] Image API key not configured, using placeholder thumbnail")
		return PlaceholderURL(title), nil
	}

	if len(prompt) > maxThumbnailPromptLen {
		prompt = prompt[:maxThumbnailPromptLen]
	}

	imageURL, err := c.generate(ctx, prompt)
	if err != nil {
		log.Printf("[AI] Thumbnail generation failed, using placeholder: %v", err)
		return PlaceholderURL(title), nil
	}

	log.Printf("[AI] Thumbnail generated: %s", imageURL)
	return imageURL, nil
}

func (c *ThumbnailClient) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := imageRequest{
		Model:          "dall-e-3",
		Prompt:         fmt.Sprintf("Create a professional blog thumbnail image: %s. Style: modern, clean, eye-catching, suitable for a blog post header.", prompt),
		N:              1,
		Size:           "1792x1024",
		Quality:        "standard",
		ResponseFormat: "url",
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/images/generations", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate image: unexpected status %d", resp.StatusCode)
	}

	var body imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}

	if len(body.Data) == 0 || body.Data[0].URL == "" {
		return "", fmt.Errorf("generate image: no image URL returned")
	}

	return body.Data[0].URL, nil
}

// PlaceholderURL builds the fallback thumbnail for a title.
func PlaceholderURL(title string) string {
	if len(title) > 50 {
		title = title[:50]
	}
	return fmt.Sprintf("https://placehold.co/1200x630/2563eb/white?text=%s&font=raleway",
		url.QueryEscape(title))
}
