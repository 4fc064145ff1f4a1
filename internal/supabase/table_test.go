package supabase_test

import (
	"context"
	"testing"

	"github.com/supakit/supakit/internal/testutil"
)

type noteRow struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	Tag  string `json:"tag"`
}

func TestQueryBuilder_InsertAndSelect(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)
	ctx := context.Background()

	var inserted []noteRow
	err := client.From("notes").
		Insert(map[string]string{"body": "first", "tag": "a"}).
		Execute(ctx, &inserted)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if len(inserted) != 1 || inserted[0].ID == "" {
		t.Fatalf("expected one inserted row with id, got %+v", inserted)
	}

	backend.Seed("notes", map[string]any{"body": "second", "tag": "b"})

	var all []noteRow
	if err := client.From("notes").Select().Execute(ctx, &all); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 rows, got %d", len(all))
	}

	var tagged []noteRow
	err = client.From("notes").
		Select().
		Eq("tag", "a").
		Execute(ctx, &tagged)
	if err != nil {
		t.Fatalf("filtered select failed: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Body != "first" {
		t.Errorf("expected only the tagged row, got %+v", tagged)
	}
}

func TestQueryBuilder_UpdateAndDelete(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)
	ctx := context.Background()

	seeded := backend.Seed("notes", map[string]any{"body": "old", "tag": "a"})
	id, _ := seeded["id"].(string)

	var updated []noteRow
	err := client.From("notes").
		Update(map[string]string{"body": "new"}).
		Eq("id", id).
		Execute(ctx, &updated)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated) != 1 || updated[0].Body != "new" {
		t.Errorf("expected updated row back, got %+v", updated)
	}

	var deleted []noteRow
	err = client.From("notes").
		Delete().
		Eq("id", id).
		Execute(ctx, &deleted)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(deleted) != 1 {
		t.Errorf("expected deleted row back, got %+v", deleted)
	}
	if rows := backend.Rows("notes"); len(rows) != 0 {
		t.Errorf("expected empty table, got %d rows", len(rows))
	}
}

func TestQueryBuilder_NoVerb(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	if err := client.From("notes").Execute(context.Background(), nil); err == nil {
		t.Error("expected error for query without a verb")
	}
}

func TestQueryBuilder_DiscardResult(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	err := client.From("notes").
		Insert(map[string]string{"body": "fire and forget"}).
		Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if rows := backend.Rows("notes"); len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
}
