package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"homemeds/m/domain"
	"homemeds/m/internal/catalog"
	"homemeds/m/internal/testutil"
)

var maintainer = domain.Caller{Maintainer: true}

func newSyncer(t *testing.T, path string) (*Syncer, *catalog.Store) {
	t.Helper()
	store := catalog.NewStore(testutil.OpenDB(t))
	return NewSyncer(store, NewFileStore(path)), store
}

func upsert(t *testing.T, store *catalog.Store, e domain.CatalogEntry) {
	t.Helper()
	if _, err := store.Upsert(context.Background(), maintainer, e); err != nil {
		t.Fatalf("upsert %s: %v", e.Barcode, err)
	}
}

func TestExportWritesOnlyOfficialEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	syncer, store := newSyncer(t, path)
	for _, bc := range []string{"101", "102", "103"} {
		upsert(t, store, domain.CatalogEntry{Barcode: bc, Name: "Official " + bc, Unit: "tablet", IsStandard: true})
	}
	for _, bc := range []string{"201", "202", "203", "204", "205"} {
		upsert(t, store, domain.CatalogEntry{Barcode: bc, Name: "Mine " + bc})
	}

	n, err := syncer.Export(context.Background(), maintainer)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 exported entries, got %d", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if strings.Contains(string(data), "is_standard") {
		t.Fatalf("snapshot must not carry is_standard: %s", data)
	}
	records, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var got []string
	for _, r := range records {
		got = append(got, r.Barcode)
	}
	sort.Strings(got)
	if strings.Join(got, ",") != "101,102,103" {
		t.Fatalf("unexpected barcodes in snapshot: %v", got)
	}
}

func TestExportRequiresMaintainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	syncer, store := newSyncer(t, path)
	upsert(t, store, domain.CatalogEntry{Barcode: "101", Name: "Official", IsStandard: true})

	if _, err := syncer.Export(context.Background(), domain.Caller{}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("snapshot must not be written, stat err %v", err)
	}
}

func TestExportOverwritesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seed.json")
	syncer, store := newSyncer(t, path)
	upsert(t, store, domain.CatalogEntry{Barcode: "101", Name: "One", IsStandard: true})
	upsert(t, store, domain.CatalogEntry{Barcode: "102", Name: "Two", IsStandard: true})
	if _, err := syncer.Export(context.Background(), maintainer); err != nil {
		t.Fatalf("first export: %v", err)
	}

	if err := store.Delete(context.Background(), maintainer, "102"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, err := syncer.Export(context.Background(), maintainer)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	data, _ := os.ReadFile(path)
	records, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 1 || len(records) != 1 || records[0].Barcode != "101" {
		t.Fatalf("expected only 101 after overwrite, got %d %+v", n, records)
	}
}

func TestImportRoundTripAcrossInstalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	source, sourceStore := newSyncer(t, path)
	want := domain.CatalogEntry{
		Barcode:           "690001",
		Name:              "Ibuprofen",
		Manufacturer:      "Acme",
		Unit:              "tablet",
		Contraindications: "ulcer",
		ChildUse:          "over 6 years",
		Tags:              "fever pain",
		IsStandard:        true,
	}
	upsert(t, sourceStore, want)
	if _, err := source.Export(context.Background(), maintainer); err != nil {
		t.Fatalf("export: %v", err)
	}

	target, targetStore := newSyncer(t, path)
	upsert(t, targetStore, domain.CatalogEntry{Barcode: "690001", Name: "local name", Manufacturer: "local"})

	n, err := target.Import(context.Background())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 imported entry, got %d", n)
	}
	got, err := targetStore.Get(context.Background(), "690001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.CreatedAt = ""
	if got != want {
		t.Fatalf("snapshot must overwrite local row:\n got %+v\nwant %+v", got, want)
	}
}

func TestImportDefaultsMissingFieldsAndSkipsIncompleteRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	doc := `[
		{"barcode": "1", "name": "Plaster", "is_standard": false},
		{"barcode": "2", "name": null, "unit": "ml"},
		{"barcode": "", "name": "No barcode"},
		{"barcode": "3", "name": "Syrup", "manufacturer": null}
	]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	syncer, store := newSyncer(t, path)

	n, err := syncer.Import(context.Background())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported entries, got %d", n)
	}
	got, err := store.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsStandard || got.Unit != "" || got.Manufacturer != "" {
		t.Fatalf("unexpected imported entry %+v", got)
	}
	if _, err := store.Get(context.Background(), "2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("record without name must be skipped, got %v", err)
	}
	if counts, _ := store.Count(context.Background()); counts.Official != 2 || counts.User != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestImportMissingSnapshot(t *testing.T) {
	syncer, store := newSyncer(t, filepath.Join(t.TempDir(), "absent.json"))
	if _, err := syncer.Import(context.Background()); !errors.Is(err, ErrSnapshotMissing) {
		t.Fatalf("expected missing snapshot, got %v", err)
	}
	syncer.LoadOnStartup(context.Background())
	if counts, _ := store.Count(context.Background()); counts != (catalog.Counts{}) {
		t.Fatalf("catalog must stay empty, got %+v", counts)
	}
}

func TestCorruptSnapshotLeavesCatalogUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`[{"barcode": "1", "name": `), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	syncer, store := newSyncer(t, path)
	upsert(t, store, domain.CatalogEntry{Barcode: "9", Name: "Mine"})

	if _, err := syncer.Import(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
	syncer.LoadOnStartup(context.Background())

	counts, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts.Official != 0 || counts.User != 1 {
		t.Fatalf("catalog changed on corrupt snapshot: %+v", counts)
	}
}

func TestEncodeRejectsUserEntries(t *testing.T) {
	if _, err := Encode([]domain.CatalogEntry{{Barcode: "1", Name: "Mine"}}); err == nil {
		t.Fatalf("user entries must never be encoded")
	}
}
