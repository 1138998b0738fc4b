package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"echoform.io/feedback-hub/internal/store"
)

// InsightReport is the fixed schema returned by the insight endpoint.
// Every field is always populated, whether the report came from the
// language model or from the local statistics template.
type InsightReport struct {
	Summary            string   `json:"summary"`
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"improvements"`
	Priorities         []string `json:"priorities"`
	Opportunities      []string `json:"opportunities"`
	UserQuestionAnswer *string  `json:"userQuestionAnswer"`
	NextSteps          []string `json:"nextSteps"`

	// HasData is false only for the static no-feedback-yet report.
	// IsManual marks a template-derived (non-AI) report.
	HasData  bool `json:"hasData"`
	IsManual bool `json:"isManual,omitempty"`
}

type InsightService struct {
	dbStore  *store.SQLiteStore
	analyzer Analyzer
}

func NewInsightService(db *store.SQLiteStore, analyzer Analyzer) *InsightService {
	return &InsightService{
		dbStore:  db,
		analyzer: analyzer,
	}
}

// GenerateProjectInsights builds a report over all feedback for a
// project. With no records it returns onboarding guidance without
// calling the model. A model failure degrades to a statistics-based
// template; a raw service error is never surfaced to the caller.
func (s *InsightService) GenerateProjectInsights(ctx context.Context, projectID, question string) (*InsightReport, int, error) {
	feedback, err := s.dbStore.GetFeedbackByProject(projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feedback: %w", err)
	}

	if len(feedback) == 0 {
		return noDataReport(), 0, nil
	}

	stats := ComputeStats(feedback)
	prompt := buildInsightPrompt(feedback, stats, question)

	report, err := s.analyzer.GenerateInsights(ctx, prompt)
	if err != nil {
		log.Printf("Insight generation failed for project %s, using template: %v", projectID, err)
		return templateReport(stats, question), len(feedback), nil
	}

	normalizeReport(report, question)
	return report, len(feedback), nil
}

func buildInsightPrompt(feedback []store.Feedback, stats Stats, question string) string {
	var entries strings.Builder
	for i, fb := range feedback {
		rating := "N/A"
		if fb.Rating != nil {
			rating = fmt.Sprintf("%d", *fb.Rating)
		}
		fmt.Fprintf(&entries, "%d. Rating: %s/5, Sentiment: %s, Feedback: %q\n",
			i+1, rating, LabelForScore(fb.Sentiment), fb.Content)
	}

	task := "Task: Provide general improvement recommendations based on the feedback."
	answerField := "null"
	if question != "" {
		task = fmt.Sprintf("USER'S SPECIFIC QUESTION: %q", question)
		answerField = "Detailed, specific answer to the user question based on the feedback data"
	}

	return fmt.Sprintf(`You are a product advisor analyzing customer feedback for actionable insights.

FEEDBACK STATISTICS:
- Total responses: %d
- Average rating: %.1f/5
- Sentiment breakdown: %d positive, %d negative, %d neutral
- Overall sentiment score: %.0f%%

ALL FEEDBACK ENTRIES:
%s
%s

Analyze all feedback carefully and provide a JSON response with these exact fields:
{
  "summary": "2-3 sentence executive summary of overall feedback trends and key insights",
  "strengths": ["List 3 specific things users appreciate most, quote actual feedback when possible"],
  "improvements": ["List 5 specific, actionable improvements based on user complaints and suggestions"],
  "priorities": ["List 3 most urgent issues that need immediate attention, if any"],
  "opportunities": ["List 3 growth opportunities based on positive feedback patterns"],
  "userQuestionAnswer": "%s",
  "nextSteps": ["List 3 specific actions the project owner should take this week"]
}

Be specific, reference actual feedback, and make all recommendations actionable. If users mentioned specific issues, include them.`,
		stats.Total, stats.AvgRating, stats.Positive, stats.Negative, stats.Neutral,
		stats.AvgSentiment*100, entries.String(), task, answerField)
}

// noDataReport is the static onboarding report returned before any
// feedback exists. No model call is made for it.
func noDataReport() *InsightReport {
	answer := "I need feedback data to answer your question. Please collect some feedback first!"
	return &InsightReport{
		Summary:       "No feedback collected yet. Share your feedback link to start gathering insights!",
		Strengths:     []string{},
		Improvements:  []string{},
		Priorities:    []string{},
		Opportunities: []string{},
		NextSteps: []string{
			"Share your feedback link with users",
			"Collect at least 5-10 responses",
			"Come back for AI insights",
		},
		UserQuestionAnswer: &answer,
		HasData:            false,
	}
}

// templateReport builds a structurally complete report from local
// statistics alone. Used when the model call fails; every schema field
// is still populated.
func templateReport(stats Stats, question string) *InsightReport {
	pctPositive := 0.0
	pctNegative := 0.0
	if stats.Total > 0 {
		pctPositive = float64(stats.Positive) / float64(stats.Total) * 100
		pctNegative = float64(stats.Negative) / float64(stats.Total) * 100
	}

	report := &InsightReport{
		Summary: fmt.Sprintf(
			"You have %d feedback entries with an average rating of %.1f/5. %d users are satisfied (%.0f%%), while %d users reported issues (%.0f%%).",
			stats.Total, stats.AvgRating, stats.Positive, pctPositive, stats.Negative, pctNegative),
		HasData:  true,
		IsManual: true,
	}

	if stats.Positive > 0 {
		report.Strengths = append(report.Strengths, "Some users are satisfied with the product")
	} else {
		report.Strengths = append(report.Strengths, "Feedback collection is working")
	}
	report.Strengths = append(report.Strengths, "Users are engaged enough to provide feedback")
	if stats.AvgRating > 3 {
		report.Strengths = append(report.Strengths, fmt.Sprintf("Average rating of %.1f/5 shows decent satisfaction", stats.AvgRating))
	} else {
		report.Strengths = append(report.Strengths, "Room for improvement identified")
	}

	report.Improvements = []string{
		"Review all negative feedback below for specific issues",
		"Address the most common complaints first",
		"Improve based on user suggestions",
	}
	if stats.Negative > 0 {
		report.Improvements = append(report.Improvements, fmt.Sprintf("Fix issues reported by %d unsatisfied users", stats.Negative))
	} else {
		report.Improvements = append(report.Improvements, "Continue collecting more feedback")
	}
	report.Improvements = append(report.Improvements, "Consider reaching out to users who left negative feedback")

	if stats.Negative > 0 {
		report.Priorities = []string{
			"Read through all negative feedback immediately",
			"Identify the most common complaint",
			"Create an action plan to address top issues",
		}
	} else {
		report.Priorities = []string{
			"Collect more feedback for better insights",
			"Maintain current satisfaction levels",
			"Plan for future improvements",
		}
	}

	report.Opportunities = []string{
		"Build on what users love about your product",
		"Turn satisfied users into advocates",
		"Expand successful features",
	}

	report.NextSteps = []string{"Review all feedback entries below"}
	if stats.Negative > 0 {
		report.NextSteps = append(report.NextSteps, "Contact unsatisfied users for more details")
	} else {
		report.NextSteps = append(report.NextSteps, "Share feedback link with more users")
	}
	report.NextSteps = append(report.NextSteps, "Implement quick fixes first")

	if question != "" {
		verdict := "There are significant issues to address"
		if stats.AvgRating > 3 {
			verdict = "Users are generally satisfied"
		}
		answer := fmt.Sprintf("Based on %d feedback entries: %s. Please review the feedback manually for specific insights about: %q",
			stats.Total, verdict, question)
		report.UserQuestionAnswer = &answer
	}

	return report
}

// normalizeReport fills any field the model omitted so the schema
// contract holds on the AI arm as well.
func normalizeReport(report *InsightReport, question string) {
	report.HasData = true
	report.IsManual = false
	if report.Strengths == nil {
		report.Strengths = []string{}
	}
	if report.Improvements == nil {
		report.Improvements = []string{}
	}
	if report.Priorities == nil {
		report.Priorities = []string{}
	}
	if report.Opportunities == nil {
		report.Opportunities = []string{}
	}
	if report.NextSteps == nil {
		report.NextSteps = []string{}
	}
	if question == "" && report.UserQuestionAnswer != nil && *report.UserQuestionAnswer == "null" {
		report.UserQuestionAnswer = nil
	}
}
