package core

// Sentiment label thresholds. Every place a label is shown or filtered
// on derives it from the stored scalar with LabelForScore, so the
// classification can never drift between write and read paths.
const (
	positiveThreshold = 0.3
	negativeThreshold = -0.3
)

const maxSummaryLen = 100

type AnalysisSource string

const (
	SourceAI       AnalysisSource = "ai"
	SourceFallback AnalysisSource = "fallback"
)

// FeedbackAnalysis is the structured record produced for one piece of
// feedback, either by the language model or by the fallback policy.
// Only the Sentiment scalar is ever persisted; the rest is returned to
// the submitter for immediate display.
type FeedbackAnalysis struct {
	Sentiment      float64  `json:"sentiment"`
	SentimentLabel string   `json:"sentimentLabel"`
	Categories     []string `json:"categories"`
	Keywords       []string `json:"keywords"`
	Priority       string   `json:"priority"` // low, medium, high, critical
	Summary        string   `json:"summary"`
	ActionRequired bool     `json:"actionRequired"`

	// Source tags which arm produced the record. Internal only: the
	// external contract does not distinguish AI from fallback output.
	Source AnalysisSource `json:"-"`
}

// LabelForScore buckets a sentiment score into the three-way label.
func LabelForScore(score float64) string {
	switch {
	case score > positiveThreshold:
		return "positive"
	case score < negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// FallbackAnalysis derives an analysis from the rating alone. It is
// pure and total: no I/O, never fails, deterministic for a given input.
// Used whenever the language-model call fails or is not configured.
func FallbackAnalysis(content string, rating *int) *FeedbackAnalysis {
	sentiment := 0.0
	label := "neutral"
	if rating != nil {
		sentiment = float64(*rating-3) / 2
		if *rating >= 4 {
			label = "positive"
		} else if *rating <= 2 {
			label = "negative"
		}
	}

	return &FeedbackAnalysis{
		Sentiment:      sentiment,
		SentimentLabel: label,
		Categories:     []string{"general"},
		Keywords:       []string{},
		Priority:       "medium",
		Summary:        truncate(content, maxSummaryLen),
		ActionRequired: false,
		Source:         SourceFallback,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
