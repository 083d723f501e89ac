package report

import (
	"context"
	"errors"

	"github.com/keywordpulse/keywordpulse/internal/ai"
	"github.com/keywordpulse/keywordpulse/internal/traffic"
)

// Generator is the capability the requester needs from the remote service:
// one prompt in, one free-text report out. Tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ChatGenerator adapts ai.Client to Generator with fixed model parameters.
type ChatGenerator struct {
	Client      *ai.Client
	Model       string
	MaxTokens   int
	Temperature float64
}

func (g ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.Client.Generate(ctx, ai.GenerateRequest{
		Model:       g.Model,
		Messages:    []ai.Message{{Role: "user", Content: prompt}},
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &ai.ServiceError{APIError: &ai.APIError{Message: "response contained no choices", RequestID: resp.RequestID}}
	}
	return resp.Choices[0].Message.Content, nil
}

// Requester turns a cleaned table plus product context into an analysis
// report via a single Generate call.
type Requester struct {
	gen        Generator
	sampleSize int
}

func NewRequester(gen Generator, sampleSize int) *Requester {
	if sampleSize <= 0 {
		sampleSize = 100
	}
	return &Requester{gen: gen, sampleSize: sampleSize}
}

// Run selects the top rows by volume, builds the prompt, and blocks on the
// remote call until a report or error arrives.
func (r *Requester) Run(ctx context.Context, t *traffic.Table, productContext string) (string, error) {
	if t == nil || len(t.Rows) == 0 {
		return "", errors.New("no rows to analyze")
	}
	sample := t.SerializeCSV(t.TopK(r.sampleSize))
	prompt := BuildPrompt(productContext, sample)
	return r.gen.Generate(ctx, prompt)
}
