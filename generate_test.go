package personasim

import (
	"context"
	"strings"
	"testing"
)

// ══════════════════════════════════════════════
// Generator tests
// ══════════════════════════════════════════════

func TestFallbackGeneratorDeterministic(t *testing.T) {
	pc := PromptContext{AgentName: "ada", Emotion: EmotionCalm, Topic: "tides", Kind: "learning"}

	a, err := FallbackGenerator{}.Generate(context.Background(), pc)
	if err != nil {
		t.Fatalf("fallback errored: %v", err)
	}
	b, _ := FallbackGenerator{}.Generate(context.Background(), pc)
	if a.Content != b.Content {
		t.Fatal("fallback output not deterministic")
	}
	if !strings.Contains(a.Content, "tides") {
		t.Fatalf("topic missing from content: %q", a.Content)
	}
	if a.Confidence >= 0.9 {
		t.Fatalf("fallback confidence too high: %f", a.Confidence)
	}
}

func TestWithFallbackAbsorbsBackendFailure(t *testing.T) {
	gen := &scriptedGenerator{} // errors immediately
	pc := PromptContext{AgentName: "ada", Emotion: EmotionCurious, Topic: "tides", Kind: "reflection"}

	out := WithFallback(context.Background(), gen, pc)
	if out == nil || out.Content == "" {
		t.Fatal("fallback did not produce content")
	}
	if out.ToneHint != string(EmotionCurious) {
		t.Fatalf("tone hint = %q", out.ToneHint)
	}
}

func TestWithFallbackPrefersWorkingBackend(t *testing.T) {
	gen := &scriptedGenerator{items: []string{"a real answer"}}
	out := WithFallback(context.Background(), gen, PromptContext{Kind: "learning"})
	if out.Content != "a real answer" {
		t.Fatalf("working backend ignored: %q", out.Content)
	}
}

func TestWithFallbackNilPrimary(t *testing.T) {
	out := WithFallback(context.Background(), nil, PromptContext{AgentName: "ada", Topic: "rain"})
	if out == nil || out.Content == "" {
		t.Fatal("nil primary should still produce content")
	}
}
