package members

import (
	"context"
	"errors"
	"testing"

	"homemeds/m/domain"
	"homemeds/m/internal/testutil"
)

func TestAddListDelete(t *testing.T) {
	s := NewStore(testutil.OpenDB(t))
	ctx := context.Background()

	for _, name := range []string{"mom", " kid "} {
		if _, err := s.Add(ctx, name); err != nil {
			t.Fatalf("add %q: %v", name, err)
		}
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "mom" || list[1].Name != "kid" {
		t.Fatalf("unexpected members %+v", list)
	}
	if list[0].CreatedAt == "" {
		t.Fatalf("expected created_at to be set")
	}

	if err := s.Delete(ctx, "mom"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "mom"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	list, _ = s.List(ctx)
	if len(list) != 1 || list[0].Name != "kid" {
		t.Fatalf("unexpected members after delete %+v", list)
	}
}

func TestAddRejectsInvalidNames(t *testing.T) {
	s := NewStore(testutil.OpenDB(t))
	ctx := context.Background()
	if _, err := s.Add(ctx, "dad"); err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, name := range []string{"", "   ", "dad", "shared", "All"} {
		if _, err := s.Add(ctx, name); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", name, err)
		}
	}
}
