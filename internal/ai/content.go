package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const contentModel = "gemini-2.5-flash"

// BlogContent is the structured output of content generation.
type BlogContent struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	ThumbnailPrompt string `json:"thumbnailPrompt"`
}

type ContentClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewContentClient(apiKey string) *ContentClient {
	return &ContentClient{
		apiKey:     apiKey,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type generateRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate turns a transcript into structured blog content.
func (c *ContentClient) Generate(ctx context.Context, transcript, videoTitle, channelName string) (*BlogContent, error) {
	log.Printf("[AI] Generating blog content, transcript length: %d characters", len(transcript))

	reqBody := generateRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: blogSystemPrompt}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: blogUserPrompt(transcript, videoTitle, channelName)}}},
		},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, contentModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate blog content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generate blog content: unexpected status %d", resp.StatusCode)
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}

	if len(body.Candidates) == 0 || len(body.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("generate blog content: empty response from model")
	}

	var content BlogContent
	if err := json.Unmarshal([]byte(body.Candidates[0].Content.Parts[0].Text), &content); err != nil {
		return nil, fmt.Errorf("generate blog content: malformed model output: %w", err)
	}

	if content.Title == "" || content.Content == "" {
		return nil, fmt.Errorf("generate blog content: incomplete model output")
	}

	log.Printf("[AI] Generated blog content: %q (%d characters)", content.Title, len(content.Content))
	return &content, nil
}
