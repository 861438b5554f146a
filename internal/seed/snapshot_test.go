package seed

import (
	"context"
	"path/filepath"
	"testing"

	"homemeds/m/internal/config"
)

func TestOpenStoreSelectsDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	store, err := OpenStore(context.Background(), config.SeedConfig{Driver: "fs", Path: path})
	if err != nil {
		t.Fatalf("open fs store: %v", err)
	}
	if _, ok := store.(*FileStore); !ok || store.Location() != path {
		t.Fatalf("unexpected store %T at %s", store, store.Location())
	}
	if _, err := OpenStore(context.Background(), config.SeedConfig{Driver: "ftp"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := OpenStore(context.Background(), config.SeedConfig{Driver: "s3"}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

func TestFileStoreReplacesContent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "a", "b", "seed.json"))
	ctx := context.Background()
	for _, doc := range []string{`[{"barcode":"1","name":"A"}]`, `[]`} {
		if err := store.Write(ctx, []byte(doc)); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := store.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != doc {
			t.Fatalf("got %s want %s", got, doc)
		}
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(store.Location()), ".seed-*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}
