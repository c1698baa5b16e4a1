package prompt

import (
	"context"
	"testing"
	"time"
)

func seed(t *testing.T, r *MemRepo, id, title string, price int64, active bool) {
	t.Helper()
	if err := r.Create(context.Background(), &Prompt{
		ID: id, Title: title, Description: "desc " + title, Price: price,
		PromptText: "secret " + id, Category: DefaultCategory, IsActive: active,
	}); err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
}

func TestMemRepo_FindByIDsSkipsMissingAndInactive(t *testing.T) {
	r := NewMemRepo()
	seed(t, r, "p1", "One", 1000, true)
	seed(t, r, "p2", "Two", 2000, false)

	got, err := r.FindByIDs(context.Background(), []string{"p1", "p2", "gone", "p1"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("active lookup=%+v", got)
	}

	got, _ = r.FindByIDs(context.Background(), []string{"p1", "p2", "gone"}, false)
	if len(got) != 2 {
		t.Fatalf("any-state lookup len=%d, want 2", len(got))
	}
}

func TestMemRepo_ListFiltersAndPages(t *testing.T) {
	r := NewMemRepo()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	seed(t, r, "a", "Portrait lights", 100, true)
	seed(t, r, "b", "Code review", 200, true)
	seed(t, r, "c", "Portrait noir", 300, false)

	items, _ := r.List(context.Background(), Query{Q: "portrait", ActiveOnly: true})
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("search=%+v", items)
	}

	items, _ = r.List(context.Background(), Query{Limit: 2})
	if len(items) != 2 || items[0].ID != "c" || items[1].ID != "b" {
		t.Fatalf("newest first expected, got %+v", items)
	}

	items, _ = r.List(context.Background(), Query{Limit: 2, Offset: 5})
	if len(items) != 0 {
		t.Fatalf("offset past end should be empty, got %d", len(items))
	}
}

func TestMemRepo_UpdateIsPartialAndDeactivateIsSoft(t *testing.T) {
	r := NewMemRepo()
	seed(t, r, "p", "Old", 1000, true)

	title := "New"
	got, err := r.Update(context.Background(), "p", UpdatePromptRequest{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || got.Price != 1000 || got.PromptText != "secret p" {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	if _, err := r.Deactivate(context.Background(), "p"); err != nil {
		t.Fatal(err)
	}
	stored, err := r.GetByID(context.Background(), "p")
	if err != nil || stored.IsActive {
		t.Fatalf("soft delete: %+v err=%v", stored, err)
	}

	if _, err := r.Deactivate(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPublicHidesBody(t *testing.T) {
	p := Prompt{ID: "x", PromptText: "hidden"}
	if p.Public().PromptText != "" {
		t.Fatalf("body leaked")
	}
	if p.PromptText != "hidden" {
		t.Fatalf("original mutated")
	}
}
