package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStripCodeFencesPlain(t *testing.T) {
	in := `{"key": "value"}`
	if got := stripCodeFences(in); got != in {
		t.Errorf("expected unchanged input, got %q", got)
	}
}

func TestStripCodeFencesJSONFence(t *testing.T) {
	in := "```json\n{\"key\": \"value\"}\n```"
	if got := stripCodeFences(in); got != `{"key": "value"}` {
		t.Errorf("expected fences stripped, got %q", got)
	}
}

func TestStripCodeFencesPlainFence(t *testing.T) {
	in := "```\n{\"key\": \"value\"}\n```"
	if got := stripCodeFences(in); got != `{"key": "value"}` {
		t.Errorf("expected fences stripped, got %q", got)
	}
}

func TestStripCodeFencesWhitespace(t *testing.T) {
	in := "  \n  {\"key\": \"value\"}  "
	if got := stripCodeFences(in); got != `{"key": "value"}` {
		t.Errorf("expected trimmed input, got %q", got)
	}
}

func TestNormalizeAnalysisClampsSentiment(t *testing.T) {
	a := &FeedbackAnalysis{Sentiment: 1.7}
	normalizeAnalysis(a)
	if a.Sentiment != 1 {
		t.Errorf("expected sentiment clamped to 1, got %v", a.Sentiment)
	}

	a = &FeedbackAnalysis{Sentiment: -2.5}
	normalizeAnalysis(a)
	if a.Sentiment != -1 {
		t.Errorf("expected sentiment clamped to -1, got %v", a.Sentiment)
	}
}

func TestNormalizeAnalysisDerivesMissingLabel(t *testing.T) {
	a := &FeedbackAnalysis{Sentiment: 0.6}
	normalizeAnalysis(a)
	if a.SentimentLabel != "positive" {
		t.Errorf("expected derived positive label, got %q", a.SentimentLabel)
	}
}

func TestNormalizeAnalysisDefaultsPriority(t *testing.T) {
	a := &FeedbackAnalysis{Priority: "urgent-ish"}
	normalizeAnalysis(a)
	if a.Priority != "medium" {
		t.Errorf("expected unknown priority replaced with medium, got %q", a.Priority)
	}

	a = &FeedbackAnalysis{Priority: "critical"}
	normalizeAnalysis(a)
	if a.Priority != "critical" {
		t.Errorf("expected valid priority kept, got %q", a.Priority)
	}
}

func TestNormalizeAnalysisNonNilSlices(t *testing.T) {
	a := &FeedbackAnalysis{}
	normalizeAnalysis(a)
	if a.Categories == nil || a.Keywords == nil {
		t.Error("expected non-nil categories and keywords")
	}
}

func TestAnalysisServiceUnconfigured(t *testing.T) {
	svc := NewAnalysisService(context.Background(), "")

	_, err := svc.AnalyzeFeedback(context.Background(), "feedback", nil)
	if !errors.Is(err, ErrAnalysisUnavailable) {
		t.Errorf("expected ErrAnalysisUnavailable, got %v", err)
	}

	_, err = svc.GenerateInsights(context.Background(), "prompt")
	if !errors.Is(err, ErrAnalysisUnavailable) {
		t.Errorf("expected ErrAnalysisUnavailable, got %v", err)
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	rating := 4
	prompt := buildAnalysisPrompt("Love it but slow", &rating)
	if !strings.Contains(prompt, `"Love it but slow"`) {
		t.Error("expected feedback content in prompt")
	}
	if !strings.Contains(prompt, "Rating: 4/5") {
		t.Error("expected rating line in prompt")
	}

	prompt = buildAnalysisPrompt("no rating", nil)
	if strings.Contains(prompt, "Rating:") {
		t.Error("expected no rating line without a rating")
	}
}
