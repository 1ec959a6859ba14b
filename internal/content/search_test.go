package content

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/friendsincode/storyhub/internal/models"
)

func TestSearchMatchesTitleContentExcerpt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	fixtures := []PostInput{
		{Title: "Gopher Tales", Content: "stories"},
		{Title: "Other", Content: "a gopher appears midway"},
		{Title: "Third", Content: "nothing", Excerpt: "gopher in the excerpt"},
		{Title: "Unrelated", Content: "nothing"},
		{Title: "Hidden Gopher", Content: "x", Status: models.StatusDraft},
	}
	for _, in := range fixtures {
		if _, err := svc.CreatePost(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	posts, page, err := svc.Search(ctx, "GOPHER", 1, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(posts))
	}
	if page.Total != 3 {
		t.Fatalf("expected total 3, got %d", page.Total)
	}
}

func TestAdvancedSearchFilters(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Guides", "")
	if err != nil {
		t.Fatal(err)
	}

	inCat, err := svc.CreatePost(ctx, PostInput{Title: "Guide One", Content: "x", CategoryID: &cat.ID, Tags: "howto"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreatePost(ctx, PostInput{Title: "Loose Post", Content: "x", Tags: "howto"}); err != nil {
		t.Fatal(err)
	}
	old, err := svc.CreatePost(ctx, PostInput{Title: "Old Guide", Content: "x", CategoryID: &cat.ID})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&models.Post{}).Where("id = ?", old.ID).
		Update("publish_date", time.Now().Add(-30*24*time.Hour)).Error; err != nil {
		t.Fatal(err)
	}

	t.Run("category filter", func(t *testing.T) {
		posts, _, err := svc.AdvancedSearch(ctx, SearchOptions{CategorySlug: "guides"})
		if err != nil {
			t.Fatal(err)
		}
		if len(posts) != 2 {
			t.Fatalf("expected 2 posts in category, got %d", len(posts))
		}
	})

	t.Run("tag filter", func(t *testing.T) {
		posts, _, err := svc.AdvancedSearch(ctx, SearchOptions{TagSlug: "howto"})
		if err != nil {
			t.Fatal(err)
		}
		if len(posts) != 2 {
			t.Fatalf("expected 2 tagged posts, got %d", len(posts))
		}
	})

	t.Run("date range excludes old", func(t *testing.T) {
		posts, _, err := svc.AdvancedSearch(ctx, SearchOptions{
			CategorySlug: "guides",
			DateFrom:     time.Now().Add(-7 * 24 * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(posts) != 1 || posts[0].ID != inCat.ID {
			t.Fatalf("expected only the recent guide, got %d posts", len(posts))
		}
	})

	t.Run("sort by title", func(t *testing.T) {
		posts, _, err := svc.AdvancedSearch(ctx, SearchOptions{SortBy: SortTitle})
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(posts); i++ {
			if posts[i-1].Title > posts[i].Title {
				t.Fatalf("not sorted by title: %q before %q", posts[i-1].Title, posts[i].Title)
			}
		}
	})
}

func TestSuggestionLimits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		in := PostInput{Title: fmt.Sprintf("Widget Story %d", i), Content: "x", Tags: fmt.Sprintf("widget-%d", i)}
		if _, err := svc.CreatePost(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	suggestions, err := svc.Suggestions(ctx, "widget")
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}

	var posts, tags int
	for _, sg := range suggestions {
		switch sg.Kind {
		case "post":
			posts++
		case "tag":
			tags++
		}
	}
	if posts != 5 {
		t.Errorf("expected 5 post suggestions, got %d", posts)
	}
	if tags != 3 {
		t.Errorf("expected 3 tag suggestions, got %d", tags)
	}
}

func TestSuggestionsEmptyQuery(t *testing.T) {
	svc, _ := newTestService(t)
	suggestions, err := svc.Suggestions(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if suggestions != nil {
		t.Fatalf("expected nil for empty query, got %v", suggestions)
	}
}
