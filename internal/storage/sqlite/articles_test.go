// ABOUTME: Tests for article and claim persistence
// ABOUTME: Covers roundtrips, URL lookup, claim replacement, and cascade delete
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sciencedecoder/decoder/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleArticle() *models.Article {
	return &models.Article{
		URL:   "https://news.example.org/exercise-sleep",
		Title: "Exercise Helps You Sleep, Study Finds",
		Text:  "Research indicates exercise improves sleep quality.",
		CitedStudies: []models.Citation{
			{DOI: "10.1000/example.1", Title: "Aerobic Exercise and Sleep Quality", Verified: true},
		},
		Vector: []float64{0.5, 0.5},
	}
}

func TestSaveAndGetArticle(t *testing.T) {
	db := testDB(t)
	store := NewArticleStore(db)
	ctx := context.Background()

	article := sampleArticle()
	if err := store.SaveArticle(ctx, article); err != nil {
		t.Fatalf("SaveArticle() error = %v", err)
	}
	if article.ID == "" {
		t.Fatal("SaveArticle should assign an ID")
	}

	got, err := store.GetArticle(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetArticle() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetArticle returned nil for existing article")
	}
	if got.URL != article.URL || got.Title != article.Title {
		t.Errorf("got %q %q, want %q %q", got.URL, got.Title, article.URL, article.Title)
	}
	if len(got.CitedStudies) != 1 || got.CitedStudies[0].DOI != "10.1000/example.1" {
		t.Errorf("CitedStudies = %v", got.CitedStudies)
	}
	if len(got.Vector) != 2 {
		t.Errorf("Vector = %v", got.Vector)
	}
}

func TestGetArticleByURL(t *testing.T) {
	db := testDB(t)
	store := NewArticleStore(db)
	ctx := context.Background()

	article := sampleArticle()
	if err := store.SaveArticle(ctx, article); err != nil {
		t.Fatalf("SaveArticle() error = %v", err)
	}

	got, err := store.GetArticleByURL(ctx, article.URL)
	if err != nil {
		t.Fatalf("GetArticleByURL() error = %v", err)
	}
	if got == nil || got.ID != article.ID {
		t.Errorf("GetArticleByURL = %v, want article %s", got, article.ID)
	}

	missing, err := store.GetArticleByURL(ctx, "https://nope.example.org")
	if err != nil {
		t.Fatalf("GetArticleByURL() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetArticleByURL for unknown URL = %v, want nil", missing)
	}
}

func TestSaveClaimsAndListBack(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)
	claims := NewClaimStore(db)
	ctx := context.Background()

	article := sampleArticle()
	if err := articles.SaveArticle(ctx, article); err != nil {
		t.Fatalf("SaveArticle() error = %v", err)
	}

	verifiedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	set := []models.Claim{
		{
			ID:                uuid.New().String(),
			Text:              "Research indicates exercise improves sleep quality.",
			RelatedStudyIDs:   []string{"s1", "s2"},
			ConfidenceScore:   0.91,
			Verified:          true,
			VerificationNotes: "Supported by Aerobic Exercise and Sleep Quality (confidence: 0.91)",
			VerifiedAt:        &verifiedAt,
		},
		{
			ID:              uuid.New().String(),
			Text:            "Evidence suggests naps replace nighttime sleep.",
			ConfidenceScore: 0,
			Verified:        false,
		},
	}

	if err := claims.SaveClaims(ctx, article.ID, set); err != nil {
		t.Fatalf("SaveClaims() error = %v", err)
	}

	got, err := claims.ListClaims(ctx, article.ID)
	if err != nil {
		t.Fatalf("ListClaims() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListClaims returned %d claims, want 2", len(got))
	}
	if got[0].ID != set[0].ID || got[1].ID != set[1].ID {
		t.Error("claims not returned in insertion order")
	}
	if !got[0].Verified || got[0].ConfidenceScore != 0.91 {
		t.Errorf("claim state = verified:%v confidence:%f", got[0].Verified, got[0].ConfidenceScore)
	}
	if got[0].VerifiedAt == nil || !got[0].VerifiedAt.Equal(verifiedAt) {
		t.Errorf("VerifiedAt = %v, want %v", got[0].VerifiedAt, verifiedAt)
	}
	if len(got[0].RelatedStudyIDs) != 2 {
		t.Errorf("RelatedStudyIDs = %v", got[0].RelatedStudyIDs)
	}
	if got[1].VerifiedAt != nil {
		t.Errorf("unverified claim VerifiedAt = %v, want nil", got[1].VerifiedAt)
	}
}

func TestSaveClaims_ReplacesPreviousSet(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)
	claims := NewClaimStore(db)
	ctx := context.Background()

	article := sampleArticle()
	if err := articles.SaveArticle(ctx, article); err != nil {
		t.Fatalf("SaveArticle() error = %v", err)
	}

	first := []models.Claim{{ID: uuid.New().String(), Text: "old claim"}}
	if err := claims.SaveClaims(ctx, article.ID, first); err != nil {
		t.Fatalf("SaveClaims() error = %v", err)
	}

	second := []models.Claim{
		{ID: uuid.New().String(), Text: "new claim a"},
		{ID: uuid.New().String(), Text: "new claim b"},
	}
	if err := claims.SaveClaims(ctx, article.ID, second); err != nil {
		t.Fatalf("SaveClaims() error = %v", err)
	}

	got, err := claims.ListClaims(ctx, article.ID)
	if err != nil {
		t.Fatalf("ListClaims() error = %v", err)
	}
	if len(got) != 2 || got[0].Text != "new claim a" {
		t.Errorf("claims after replacement = %v", got)
	}
}

func TestCountVerified(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)
	claims := NewClaimStore(db)
	ctx := context.Background()

	article := sampleArticle()
	if err := articles.SaveArticle(ctx, article); err != nil {
		t.Fatalf("SaveArticle() error = %v", err)
	}

	set := []models.Claim{
		{ID: uuid.New().String(), Text: "a", Verified: true},
		{ID: uuid.New().String(), Text: "b", Verified: false},
		{ID: uuid.New().String(), Text: "c", Verified: true},
	}
	if err := claims.SaveClaims(ctx, article.ID, set); err != nil {
		t.Fatalf("SaveClaims() error = %v", err)
	}

	count, err := claims.CountVerified(ctx, article.ID)
	if err != nil {
		t.Fatalf("CountVerified() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountVerified = %d, want 2", count)
	}
}

func TestDeleteArticle_CascadesClaims(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)
	claims := NewClaimStore(db)
	ctx := context.Background()

	article := sampleArticle()
	if err := articles.SaveArticle(ctx, article); err != nil {
		t.Fatalf("SaveArticle() error = %v", err)
	}
	set := []models.Claim{{ID: uuid.New().String(), Text: "doomed"}}
	if err := claims.SaveClaims(ctx, article.ID, set); err != nil {
		t.Fatalf("SaveClaims() error = %v", err)
	}

	if err := articles.DeleteArticle(ctx, article.ID); err != nil {
		t.Fatalf("DeleteArticle() error = %v", err)
	}

	left, err := claims.ListClaims(ctx, article.ID)
	if err != nil {
		t.Fatalf("ListClaims() error = %v", err)
	}
	if len(left) != 0 {
		t.Errorf("claims survived article delete: %v", left)
	}
}

func TestGetArticle_IncludesClaims(t *testing.T) {
	db := testDB(t)
	articles := NewArticleStore(db)
	claimStore := NewClaimStore(db)
	ctx := context.Background()

	article := sampleArticle()
	if err := articles.SaveArticle(ctx, article); err != nil {
		t.Fatalf("SaveArticle() error = %v", err)
	}
	set := []models.Claim{{ID: uuid.New().String(), Text: "attached claim"}}
	if err := claimStore.SaveClaims(ctx, article.ID, set); err != nil {
		t.Fatalf("SaveClaims() error = %v", err)
	}

	got, err := articles.GetArticle(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetArticle() error = %v", err)
	}
	if len(got.Claims) != 1 || got.Claims[0].Text != "attached claim" {
		t.Errorf("Claims = %v", got.Claims)
	}
}
