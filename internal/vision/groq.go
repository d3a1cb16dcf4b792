package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	groqModel       = "llama-3.2-11b-vision-preview"
	groqTemperature = 0.1
	groqMaxTokens   = 1000
	groqTimeout     = 30 * time.Second
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GroqAnalyzer sends images to a Groq-compatible chat completions endpoint
// for vision analysis. One attempt per image, no retries.
type GroqAnalyzer struct {
	httpClient *resty.Client
	apiURL     string
}

func NewGroqAnalyzer(apiURL, apiKey string) *GroqAnalyzer {
	return &GroqAnalyzer{
		apiURL: apiURL,
		httpClient: resty.New().
			SetDebug(false).
			SetTimeout(groqTimeout).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(apiKey),
	}
}

// Analyze implements the Analyzer interface. The image is inlined into the
// user message as a base64 data URI, the way OpenAI-compatible vision
// endpoints expect it. The distinct failure modes (file read, transport,
// HTTP status, empty response) return distinguishable wrapped errors for
// the logs, though callers typically collapse them into one outcome.
func (g *GroqAnalyzer) Analyze(ctx context.Context, path string) (string, error) {
	imageData, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}

	dataURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(imageData))
	body := chatRequest{
		Model: groqModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: birdPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
		Temperature: groqTemperature,
		MaxTokens:   groqMaxTokens,
	}

	result := &chatResponse{}
	res, err := g.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(g.apiURL)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("inference request failed: %s (status: %d)", res.String(), res.StatusCode())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("inference response has no choices")
	}

	answer := result.Choices[0].Message.Content
	log.Info().Str("path", path).Str("answer", answer).Msg("image analyzed")

	return answer, nil
}
