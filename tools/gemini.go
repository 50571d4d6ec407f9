package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrModelNotConfigured = errors.New("GEMINI_API_KEY not set")
var ErrEmptyModelResponse = errors.New("empty response from model")

// InlineImage is an image attached to a prompt (decoded data URL).
type InlineImage struct {
	Format string // jpeg, png, webp...
	Data   []byte
}

// Model is the remote generative collaborator. It is opaque to the rest of the app.
type Model interface {
	GenerateText(ctx context.Context, prompt string, image *InlineImage) (string, error)
}

// GeminiClient calls the Gemini API through the official SDK.
// The SDK sends the key as a request header, so it never shows up in URLs or logs.
type GeminiClient struct {
	ApiKey   string
	Model    string
	Endpoint string

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiClient(apiKey, model, endpoint string) *GeminiClient {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{ApiKey: strings.TrimSpace(apiKey), Model: model, Endpoint: endpoint}
}

// Configured reports whether a key is present; without it every call fails fast.
func (g *GeminiClient) Configured() bool {
	return g != nil && g.ApiKey != ""
}

// GenerateText sends one request and joins the text parts of the first candidate.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, image *InlineImage) (string, error) {
	if !g.Configured() {
		return "", ErrModelNotConfigured
	}

	client, err := g.sdk()
	if err != nil {
		return "", err
	}

	parts := []genai.Part{genai.Text(prompt)}
	if image != nil && len(image.Data) > 0 {
		parts = append(parts, genai.ImageData(image.Format, image.Data))
	}

	resp, err := client.GenerativeModel(g.Model).GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return candidateText(resp)
}

// sdk builds the SDK client on first use and keeps it for the process lifetime.
// A failed build is not cached.
func (g *GeminiClient) sdk() (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(g.ApiKey)}
	if g.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.Endpoint))
	}

	client, err := genai.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// Close releases the SDK client, if one was built.
func (g *GeminiClient) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyModelResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok && strings.TrimSpace(string(txt)) != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(string(txt))
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyModelResponse
	}
	return out, nil
}
