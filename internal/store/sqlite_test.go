package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateProject(t *testing.T) {
	db := openTestDB(t)
	p, err := db.CreateProject("My App", "my-app-abc123", strPtr("desc"), "owner@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("expected non-empty project ID")
	}
	if p.Slug != "my-app-abc123" {
		t.Errorf("expected slug preserved, got %q", p.Slug)
	}
}

func TestCreateProjectDuplicateSlug(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.CreateProject("A", "same-slug", nil, "a@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := db.CreateProject("B", "same-slug", nil, "b@example.com"); err == nil {
		t.Error("expected unique constraint error for duplicate slug")
	}
}

func TestGetProjectBySlugNotFound(t *testing.T) {
	db := openTestDB(t)
	p, err := db.GetProjectBySlug("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestFindProjectByNameAndOwnerNormalizesEmail(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.CreateProject("My App", "my-app-x", nil, "owner@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := db.FindProjectByNameAndOwner("  My App  ", "  OWNER@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected project found with trimmed name and lowercased email")
	}
}

func TestCreateFeedbackAssignsIDAndTimestamp(t *testing.T) {
	db := openTestDB(t)
	fb := &Feedback{ProjectID: "proj-1", Content: "nice", Sentiment: 0.5}
	if err := db.CreateFeedback(fb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.ID == "" {
		t.Error("expected generated feedback ID")
	}
	if fb.CreatedAt.IsZero() {
		t.Error("expected creation timestamp set")
	}
}

func TestGetFeedbackByProjectNewestFirst(t *testing.T) {
	db := openTestDB(t)
	for _, content := range []string{"oldest", "middle", "newest"} {
		if err := db.CreateFeedback(&Feedback{ProjectID: "proj-1", Content: content, Sentiment: 0}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// A different project's feedback must not leak in.
	if err := db.CreateFeedback(&Feedback{ProjectID: "proj-2", Content: "other", Sentiment: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feedback, err := db.GetFeedbackByProject("proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feedback) != 3 {
		t.Fatalf("expected 3 records, got %d", len(feedback))
	}
	if feedback[0].Content != "newest" || feedback[2].Content != "oldest" {
		t.Errorf("expected newest-first order, got %q .. %q", feedback[0].Content, feedback[2].Content)
	}
}

func TestFeedbackNullableFields(t *testing.T) {
	db := openTestDB(t)
	if err := db.CreateFeedback(&Feedback{ProjectID: "proj-1", Content: "anonymous", Sentiment: -0.2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.CreateFeedback(&Feedback{ProjectID: "proj-1", Content: "rated", Rating: intPtr(5), Email: strPtr("a@b.c"), Sentiment: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feedback, err := db.GetFeedbackByProject("proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fb := range feedback {
		switch fb.Content {
		case "anonymous":
			if fb.Rating != nil || fb.Email != nil {
				t.Error("expected nil rating and email for anonymous feedback")
			}
		case "rated":
			if fb.Rating == nil || *fb.Rating != 5 {
				t.Error("expected rating 5")
			}
			if fb.Email == nil || *fb.Email != "a@b.c" {
				t.Error("expected email preserved")
			}
		}
	}
}

func TestFeedbackRatingRangeEnforced(t *testing.T) {
	db := openTestDB(t)
	err := db.CreateFeedback(&Feedback{ProjectID: "proj-1", Content: "bad rating", Rating: intPtr(9), Sentiment: 0})
	if err == nil {
		t.Error("expected check constraint error for out-of-range rating")
	}
}
