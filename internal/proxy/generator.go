package proxy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerateInput is a fully decoded model invocation.
type GenerateInput struct {
	ModelName        string
	Parts            []genai.Part
	ResponseMIMEType string
	ResponseSchema   *genai.Schema
}

// Generator runs one model invocation and returns the concatenated text output.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (string, error)
}

// GeminiGenerator calls the hosted Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("missing API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, in GenerateInput) (string, error) {
	model := g.client.GenerativeModel(in.ModelName)
	model.ResponseMIMEType = in.ResponseMIMEType
	model.ResponseSchema = in.ResponseSchema

	resp, err := model.GenerateContent(ctx, in.Parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
