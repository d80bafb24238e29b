package personasim

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// ──────────────────────────────────────────────
// Generator — external text backend with local fallback
// ──────────────────────────────────────────────

// PromptContext is everything a backend needs to produce content.
type PromptContext struct {
	AgentName string
	Emotion   EmotionCategory
	Intensity int
	Topic     string
	Kind      string   // learning | reflection | social
	Hints     []string // recent memories, knowledge topics
}

// Generated is the schema every backend returns, fallback included.
type Generated struct {
	Content    string
	Confidence float64 // 0.0-1.0
	ToneHint   string
}

// Generator produces text for the simulation. The core must keep
// functioning when the backend is unavailable: callers either absorb
// errors into their own degraded path or go through WithFallback.
type Generator interface {
	Generate(ctx context.Context, pc PromptContext) (*Generated, error)
}

// ──────────────────────────────────────────────
// OpenAIGenerator
// ──────────────────────────────────────────────

// OpenAIGenerator calls a chat-completion model.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a backend using the given API key. Model
// defaults to gpt-4o-mini.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, pc PromptContext) (*Generated, error) {
	system := fmt.Sprintf(
		"You are the inner voice of %s, currently feeling %s (intensity %d). Reply with 2-3 sentences, no preamble.",
		pc.AgentName, pc.Emotion, pc.Intensity,
	)
	user := fmt.Sprintf("Kind: %s. Topic: %s.", pc.Kind, pc.Topic)
	if len(pc.Hints) > 0 {
		user += fmt.Sprintf(" Context: %v.", pc.Hints)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.8,
		MaxTokens:   200,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty response")
	}
	return &Generated{
		Content:    resp.Choices[0].Message.Content,
		Confidence: 0.9,
		ToneHint:   string(pc.Emotion),
	}, nil
}

// ──────────────────────────────────────────────
// FallbackGenerator
// ──────────────────────────────────────────────

// FallbackGenerator produces lower-fidelity but schema-identical
// results deterministically from the prompt context. No network.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(_ context.Context, pc PromptContext) (*Generated, error) {
	var content string
	switch pc.Kind {
	case "learning":
		content = fmt.Sprintf("%s turns the idea of %s over slowly, connecting it to what is already known.", pc.AgentName, pc.Topic)
	case "reflection":
		content = fmt.Sprintf("%s sits with the feeling of being %s and lets %s settle into place.", pc.AgentName, pc.Emotion, pc.Topic)
	default:
		content = fmt.Sprintf("%s considers %s for a while.", pc.AgentName, pc.Topic)
	}
	return &Generated{
		Content:    content,
		Confidence: 0.4,
		ToneHint:   string(pc.Emotion),
	}, nil
}

// WithFallback tries the primary backend and absorbs any failure into
// the local fallback. Backend trouble is never surfaced to the caller.
func WithFallback(ctx context.Context, primary Generator, pc PromptContext) *Generated {
	if primary != nil {
		if out, err := primary.Generate(ctx, pc); err == nil {
			return out
		} else {
			log.Printf("[Generator] backend failed, using fallback: %v", err)
		}
	}
	out, _ := FallbackGenerator{}.Generate(ctx, pc)
	return out
}
