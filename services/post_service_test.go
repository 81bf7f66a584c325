package services

import (
	"courier-server/models"
	"fmt"
	"testing"
	"time"
)

func makePosts(n int) []models.Post {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			ID:        fmt.Sprintf("p%d", i),
			Timestamp: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return posts
}

func TestPageBookkeepingFullPage(t *testing.T) {
	posts := makePosts(PostsBatchSize)
	cursor, hasMore := PageBookkeeping(posts, PostsBatchSize)
	if !hasMore {
		t.Fatal("full page should keep hasMore true")
	}
	want := encodeCursor(posts[len(posts)-1])
	if cursor != want {
		t.Fatalf("cursor = %q, want %q", cursor, want)
	}
}

func TestCursorRoundTripKeepsTiebreaker(t *testing.T) {
	post := models.Post{ID: "p42", Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	ts, id, err := decodeCursor(encodeCursor(post))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Equal(post.Timestamp) || id != "p42" {
		t.Fatalf("got (%v, %q)", ts, id)
	}
}

func TestDecodeCursorAcceptsBareTimestamp(t *testing.T) {
	// Cursors issued before the tiebreaker carry only a timestamp.
	ts, id, err := decodeCursor("2025-03-01T12:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" || ts.IsZero() {
		t.Fatalf("got (%v, %q)", ts, id)
	}

	if _, _, err := decodeCursor("not-a-cursor"); err == nil {
		t.Fatal("garbage cursor accepted")
	}
}

func TestPageBookkeepingShortPage(t *testing.T) {
	posts := makePosts(17)
	_, hasMore := PageBookkeeping(posts, PostsBatchSize)
	if hasMore {
		t.Fatal("short page must set hasMore false")
	}

	_, hasMore = PageBookkeeping(nil, PostsBatchSize)
	if hasMore {
		t.Fatal("empty page must set hasMore false")
	}
}

func TestFilterPostsMatchesAllSearchableFields(t *testing.T) {
	posts := []models.Post{
		{ID: "1", Description: "Carrying two laptops"},
		{ID: "2", Category: "Electronics"},
		{ID: "3", LocationFrom: "Addis Ababa"},
		{ID: "4", LocationTo: "Washington DC"},
		{ID: "5", Description: "nothing relevant"},
	}

	cases := []struct {
		query string
		want  string
	}{
		{"laptop", "1"},
		{"electronics", "2"},
		{"addis", "3"},
		{"washington", "4"},
	}
	for _, c := range cases {
		got := FilterPosts(posts, c.query)
		if len(got) != 1 || got[0].ID != c.want {
			t.Errorf("query %q: got %v", c.query, got)
		}
	}

	if got := FilterPosts(posts, "zurich"); len(got) != 0 {
		t.Errorf("no-match query returned %v", got)
	}
}

func TestFilterPostsCaseInsensitive(t *testing.T) {
	posts := []models.Post{{ID: "1", Category: "ELECTRONICS"}}
	if got := FilterPosts(posts, "electronics"); len(got) != 1 {
		t.Fatal("filter should ignore case")
	}
}

func TestSearchPagesReportsPagesActuallyFetched(t *testing.T) {
	feed := []Page{
		{Items: makePosts(PostsBatchSize), HasMore: true, NextCursor: "c1"},
		{Items: []models.Post{{ID: "last", Category: "Electronics"}}, HasMore: false},
	}
	calls := 0
	load := func(cursor string) (Page, error) {
		page := feed[calls]
		calls++
		return page, nil
	}

	results, pages, err := searchPages(load, "electronics", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 2 {
		t.Fatalf("pages = %d, want 2 (the feed ran out before the cap)", pages)
	}
	if len(results) != 1 || results[0].ID != "last" {
		t.Fatalf("results = %v", results)
	}
}

func TestSearchPagesStopsAtPageCap(t *testing.T) {
	load := func(cursor string) (Page, error) {
		return Page{Items: makePosts(PostsBatchSize), HasMore: true, NextCursor: "c"}, nil
	}
	_, pages, err := searchPages(load, "anything", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 3 {
		t.Fatalf("pages = %d, want 3", pages)
	}
}

func TestValidateNewPost(t *testing.T) {
	if err := ValidateNewPost(models.PostOrder, "desc", "cat", "100 USD", "tg:@abel"); err != nil {
		t.Fatalf("valid post rejected: %v", err)
	}
	if err := ValidateNewPost("rental", "desc", "cat", "100 USD", "tg:@abel"); err == nil {
		t.Fatal("unknown post type accepted")
	}
	if err := ValidateNewPost(models.PostTraveler, "", "cat", "100 USD", "tg:@abel"); err == nil {
		t.Fatal("empty description accepted")
	}
	if err := ValidateNewPost(models.PostTraveler, "desc", "cat", "", "tg:@abel"); err == nil {
		t.Fatal("empty price accepted")
	}
}
