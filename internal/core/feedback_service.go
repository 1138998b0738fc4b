package core

import (
	"context"
	"fmt"
	"log"

	"echoform.io/feedback-hub/internal/store"
)

// Analyzer is the language-model dependency of the feedback and insight
// services. It is an interface so tests can substitute a stub; the
// production implementation is *AnalysisService.
type Analyzer interface {
	AnalyzeFeedback(ctx context.Context, content string, rating *int) (*FeedbackAnalysis, error)
	GenerateInsights(ctx context.Context, prompt string) (*InsightReport, error)
}

// Stats are aggregate statistics over a project's feedback, computed
// per query and never persisted.
type Stats struct {
	Total        int     `json:"total"`
	Positive     int     `json:"positive"`
	Negative     int     `json:"negative"`
	Neutral      int     `json:"neutral"`
	NeedsAction  int     `json:"needsAction"`
	AvgSentiment float64 `json:"avgSentiment"`
	AvgRating    float64 `json:"avgRating"`
}

type FeedbackService struct {
	dbStore  *store.SQLiteStore
	analyzer Analyzer
}

func NewFeedbackService(db *store.SQLiteStore, analyzer Analyzer) *FeedbackService {
	return &FeedbackService{
		dbStore:  db,
		analyzer: analyzer,
	}
}

// SubmitFeedback analyzes and persists one submission. An analysis
// failure is absorbed silently: the fallback policy substitutes a
// rating-derived record and the submission still succeeds. Only a
// persistence failure is reported to the caller.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, projectID, content string, rating *int, email *string) (*store.Feedback, *FeedbackAnalysis, error) {
	analysis, err := s.analyzer.AnalyzeFeedback(ctx, content, rating)
	if err != nil {
		log.Printf("AI analysis failed for project %s, using fallback: %v", projectID, err)
		analysis = FallbackAnalysis(content, rating)
	}

	fb := &store.Feedback{
		ProjectID: projectID,
		Content:   content,
		Rating:    rating,
		Email:     email,
		Sentiment: analysis.Sentiment,
	}
	if err := s.dbStore.CreateFeedback(fb); err != nil {
		return nil, nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	// Enrich the response only; the label is re-derived from the
	// stored scalar on every future read.
	fb.SentimentLabel = analysis.SentimentLabel
	return fb, analysis, nil
}

// ListFeedback returns a project's feedback newest-first, each record
// enriched with its derived sentiment label, plus aggregate stats.
func (s *FeedbackService) ListFeedback(projectID string) ([]store.Feedback, Stats, error) {
	feedback, err := s.dbStore.GetFeedbackByProject(projectID)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to fetch feedback: %w", err)
	}

	for i := range feedback {
		feedback[i].SentimentLabel = LabelForScore(feedback[i].Sentiment)
	}

	return feedback, ComputeStats(feedback), nil
}

// ComputeStats aggregates counts and means over a feedback set. Means
// over empty sets are 0, never NaN: the sentiment mean divides by the
// record count, the rating mean only by the count of rated records.
func ComputeStats(feedback []store.Feedback) Stats {
	stats := Stats{Total: len(feedback)}

	var sentimentSum float64
	var ratingSum, ratingCount int
	for _, fb := range feedback {
		switch LabelForScore(fb.Sentiment) {
		case "positive":
			stats.Positive++
		case "negative":
			stats.Negative++
		default:
			stats.Neutral++
		}
		sentimentSum += fb.Sentiment
		if fb.Rating != nil {
			ratingSum += *fb.Rating
			ratingCount++
		}
	}

	if stats.Total > 0 {
		stats.AvgSentiment = sentimentSum / float64(stats.Total)
	}
	if ratingCount > 0 {
		stats.AvgRating = float64(ratingSum) / float64(ratingCount)
	}
	return stats
}
