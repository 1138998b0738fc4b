package core

import (
	"strings"
	"testing"
)

func TestFallbackAnalysisSentimentFromRating(t *testing.T) {
	cases := []struct {
		rating    int
		sentiment float64
		label     string
	}{
		{1, -1.0, "negative"},
		{2, -0.5, "negative"},
		{3, 0.0, "neutral"},
		{4, 0.5, "positive"},
		{5, 1.0, "positive"},
	}

	for _, tc := range cases {
		a := FallbackAnalysis("some feedback", &tc.rating)
		if a.Sentiment != tc.sentiment {
			t.Errorf("rating %d: expected sentiment %v, got %v", tc.rating, tc.sentiment, a.Sentiment)
		}
		if a.SentimentLabel != tc.label {
			t.Errorf("rating %d: expected label %q, got %q", tc.rating, tc.label, a.SentimentLabel)
		}
	}
}

func TestFallbackAnalysisNoRating(t *testing.T) {
	a := FallbackAnalysis("no rating given", nil)
	if a.Sentiment != 0 {
		t.Errorf("expected sentiment 0, got %v", a.Sentiment)
	}
	if a.SentimentLabel != "neutral" {
		t.Errorf("expected neutral label, got %q", a.SentimentLabel)
	}
}

func TestFallbackAnalysisDefaults(t *testing.T) {
	rating := 3
	a := FallbackAnalysis("content", &rating)
	if len(a.Categories) != 1 || a.Categories[0] != "general" {
		t.Errorf("expected categories [general], got %v", a.Categories)
	}
	if a.Keywords == nil || len(a.Keywords) != 0 {
		t.Errorf("expected empty keywords slice, got %v", a.Keywords)
	}
	if a.Priority != "medium" {
		t.Errorf("expected medium priority, got %q", a.Priority)
	}
	if a.ActionRequired {
		t.Error("expected actionRequired false")
	}
	if a.Source != SourceFallback {
		t.Errorf("expected fallback source, got %q", a.Source)
	}
}

func TestFallbackAnalysisSummaryTruncation(t *testing.T) {
	long := strings.Repeat("x", 250)
	a := FallbackAnalysis(long, nil)
	if len([]rune(a.Summary)) != 100 {
		t.Errorf("expected 100-rune summary, got %d", len([]rune(a.Summary)))
	}

	short := "short feedback"
	a = FallbackAnalysis(short, nil)
	if a.Summary != short {
		t.Errorf("expected untruncated summary, got %q", a.Summary)
	}
}

func TestFallbackAnalysisDeterministic(t *testing.T) {
	rating := 4
	a := FallbackAnalysis("same input", &rating)
	b := FallbackAnalysis("same input", &rating)
	if a.Sentiment != b.Sentiment || a.SentimentLabel != b.SentimentLabel || a.Summary != b.Summary {
		t.Error("expected identical output for identical input")
	}
}

func TestLabelForScoreThresholds(t *testing.T) {
	cases := []struct {
		score float64
		label string
	}{
		{1.0, "positive"},
		{0.5, "positive"},
		{0.31, "positive"},
		{0.3, "neutral"}, // boundary is exclusive
		{0.0, "neutral"},
		{-0.3, "neutral"}, // boundary is exclusive
		{-0.31, "negative"},
		{-0.5, "negative"},
		{-1.0, "negative"},
	}

	for _, tc := range cases {
		if got := LabelForScore(tc.score); got != tc.label {
			t.Errorf("score %v: expected %q, got %q", tc.score, tc.label, got)
		}
	}
}

func TestLabelForScoreIdempotent(t *testing.T) {
	for _, score := range []float64{-1, -0.31, 0, 0.31, 1} {
		first := LabelForScore(score)
		for i := 0; i < 3; i++ {
			if got := LabelForScore(score); got != first {
				t.Fatalf("score %v: label changed across reads: %q vs %q", score, first, got)
			}
		}
	}
}
