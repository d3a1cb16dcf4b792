package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T) (string, []byte) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path, data
}

func TestAnalyze_Success(t *testing.T) {
	imagePath, imageData := writeTestImage(t)

	var gotAuth string
	var gotBody chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"detected\":\"no\",\"description\":\"no sign of birds on the trees.\"}"}}]}`))
	}))
	defer ts.Close()

	analyzer := NewGroqAnalyzer(ts.URL, "test-key")
	answer, err := analyzer.Analyze(context.Background(), imagePath)
	require.NoError(t, err)
	assert.Equal(t, `{"detected":"no","description":"no sign of birds on the trees."}`, answer)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "llama-3.2-11b-vision-preview", gotBody.Model)
	assert.Equal(t, 0.1, gotBody.Temperature)
	assert.Equal(t, 1000, gotBody.MaxTokens)

	require.Len(t, gotBody.Messages, 1)
	msg := gotBody.Messages[0]
	assert.Equal(t, "user", msg.Role)
	require.Len(t, msg.Content, 2)
	assert.Equal(t, "text", msg.Content[0].Type)
	assert.Contains(t, msg.Content[0].Text, "Analyze the image looking for birds.")
	assert.Equal(t, "image_url", msg.Content[1].Type)
	require.NotNil(t, msg.Content[1].ImageURL)

	wantURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)
	assert.Equal(t, wantURL, msg.Content[1].ImageURL.URL)
}

func TestAnalyze_Non200Status(t *testing.T) {
	imagePath, _ := writeTestImage(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer ts.Close()

	analyzer := NewGroqAnalyzer(ts.URL, "test-key")
	_, err := analyzer.Analyze(context.Background(), imagePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 429")
}

func TestAnalyze_EmptyChoices(t *testing.T) {
	imagePath, _ := writeTestImage(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	analyzer := NewGroqAnalyzer(ts.URL, "test-key")
	_, err := analyzer.Analyze(context.Background(), imagePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestAnalyze_NetworkError(t *testing.T) {
	imagePath, _ := writeTestImage(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // closed before the request is made

	analyzer := NewGroqAnalyzer(ts.URL, "test-key")
	_, err := analyzer.Analyze(context.Background(), imagePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inference request failed")
}

func TestAnalyze_MissingImage(t *testing.T) {
	analyzer := NewGroqAnalyzer("http://localhost:0", "test-key")
	_, err := analyzer.Analyze(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read image")
}

func TestBirdPrompt_IsValidJSONDocument(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(birdPrompt), &doc))
	assert.False(t, strings.HasPrefix(birdPrompt, "\n"))
	assert.Contains(t, doc, "task")
	assert.Contains(t, doc, "output_format")
}
