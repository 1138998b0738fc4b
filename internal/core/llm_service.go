package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	analysisModelName = "gemini-1.5-flash-latest"
	insightModelName  = "gemini-1.5-flash-latest"

	analysisSystemInstruction = "You are a feedback analysis expert. Always return valid JSON."

	insightSystemInstruction = "You are an expert product advisor. Analyze the feedback data and provide " +
		"specific, actionable insights. Always return valid JSON. Be detailed and reference specific " +
		"feedback when making recommendations."
)

// ErrAnalysisUnavailable is returned when the language-model service is
// unreachable, unconfigured, returns no content, or returns data that
// does not parse as the expected shape. Callers substitute the fallback
// policy; no retry is performed.
var ErrAnalysisUnavailable = errors.New("analysis service unavailable")

// AnalysisService wraps the Gemini API. A nil client (no API key)
// makes every call fail with ErrAnalysisUnavailable immediately, which
// degrades the whole system to fallback analysis.
type AnalysisService struct {
	client *genai.Client
}

func NewAnalysisService(ctx context.Context, apiKey string) *AnalysisService {
	if apiKey == "" {
		return &AnalysisService{}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("Failed to create GenAI client, AI analysis disabled: %v", err)
		return &AnalysisService{}
	}
	return &AnalysisService{client: client}
}

func (s *AnalysisService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// AnalyzeFeedback sends a single JSON-mode completion request for one
// piece of feedback. There is no retry: any failure is reported as
// ErrAnalysisUnavailable and the call site falls back.
func (s *AnalysisService) AnalyzeFeedback(ctx context.Context, content string, rating *int) (*FeedbackAnalysis, error) {
	if s.client == nil {
		return nil, ErrAnalysisUnavailable
	}

	prompt := buildAnalysisPrompt(content, rating)

	model := s.client.GenerativeModel(analysisModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(analysisSystemInstruction)},
	}

	temp := float32(0.3)
	maxTokens := int32(500)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		MaxOutputTokens:  &maxTokens,
		ResponseMIMEType: "application/json",
	}

	raw, err := s.generate(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	var analysis FeedbackAnalysis
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &analysis); err != nil {
		return nil, fmt.Errorf("%w: unparseable analysis response: %v", ErrAnalysisUnavailable, err)
	}
	normalizeAnalysis(&analysis)
	analysis.Source = SourceAI
	return &analysis, nil
}

// GenerateInsights sends a free-form JSON report request built by the
// insight service and parses the fixed report schema.
func (s *AnalysisService) GenerateInsights(ctx context.Context, prompt string) (*InsightReport, error) {
	if s.client == nil {
		return nil, ErrAnalysisUnavailable
	}

	model := s.client.GenerativeModel(insightModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(insightSystemInstruction)},
	}

	temp := float32(0.7)
	maxTokens := int32(2000)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		MaxOutputTokens:  &maxTokens,
		ResponseMIMEType: "application/json",
	}

	raw, err := s.generate(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	var report InsightReport
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &report); err != nil {
		return nil, fmt.Errorf("%w: unparseable insight response: %v", ErrAnalysisUnavailable, err)
	}
	return &report, nil
}

func (s *AnalysisService) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrAnalysisUnavailable)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", ErrAnalysisUnavailable)
	}
	return text.String(), nil
}

func buildAnalysisPrompt(content string, rating *int) string {
	var b strings.Builder
	b.WriteString(`Analyze this customer feedback and return a JSON object with:
- sentiment: number between -1 (very negative) and 1 (very positive)
- sentimentLabel: "positive", "neutral", or "negative"
- categories: array from ["bug", "feature-request", "praise", "complaint", "question", "suggestion", "other"]
- keywords: array of 3-5 key topics mentioned
- priority: "low", "medium", "high", or "critical" based on urgency
- summary: one sentence summary (max 100 chars)
- actionRequired: boolean, true if needs immediate attention

`)
	fmt.Fprintf(&b, "Feedback: %q\n", content)
	if rating != nil {
		fmt.Fprintf(&b, "Rating: %d/5\n", *rating)
	}
	return b.String()
}

// normalizeAnalysis keeps a parsed model response within the documented
// contract: sentiment clamped to [-1,1], label consistent with the
// score when the model omitted it, summary bounded, slices non-nil.
func normalizeAnalysis(a *FeedbackAnalysis) {
	if a.Sentiment > 1 {
		a.Sentiment = 1
	} else if a.Sentiment < -1 {
		a.Sentiment = -1
	}
	if a.SentimentLabel == "" {
		a.SentimentLabel = LabelForScore(a.Sentiment)
	}
	if a.Categories == nil {
		a.Categories = []string{}
	}
	if a.Keywords == nil {
		a.Keywords = []string{}
	}
	switch a.Priority {
	case "low", "medium", "high", "critical":
	default:
		a.Priority = "medium"
	}
	a.Summary = truncate(a.Summary, maxSummaryLen)
}

// stripCodeFences removes a surrounding markdown code block if the
// model wrapped its JSON in one.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	endIdx := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}
	return strings.Join(lines[1:endIdx], "\n")
}
