package store

import "time"

type Project struct {
	ID          string    `json:"id"` // UUID
	Name        string    `json:"name"`
	Slug        string    `json:"slug"` // URL-safe, unique, immutable
	Description *string   `json:"description"` // Nullable
	OwnerEmail  string    `json:"owner_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type Feedback struct {
	ID        string    `json:"id"` // UUID
	ProjectID string    `json:"project_id"`
	Content   string    `json:"content"`
	Rating    *int      `json:"rating"` // Nullable, 1-5
	Email     *string   `json:"email"`  // Nullable
	Sentiment float64   `json:"sentiment"` // [-1, 1], always populated
	CreatedAt time.Time `json:"created_at"`

	// Derived from Sentiment on every read, never persisted.
	SentimentLabel string `json:"sentiment_label,omitempty"`
}
