package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"homemeds/m/domain"
	"homemeds/m/internal/config"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func seedCatalog(t *testing.T, dbPath, seedPath string, entries ...domain.CatalogEntry) {
	t.Helper()
	cfg := config.Load()
	cfg.DatabasePath = dbPath
	cfg.Seed = config.SeedConfig{Driver: "fs", Path: seedPath}
	svc, err := openServices(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open services: %v", err)
	}
	defer svc.Close()
	for _, e := range entries {
		if _, err := svc.catalog.Upsert(context.Background(), domain.Caller{Maintainer: true}, e); err != nil {
			t.Fatalf("upsert %s: %v", e.Barcode, err)
		}
	}
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, cmd := range []string{"serve", "init", "reset", "export-seed", "import-seed"} {
		if !strings.Contains(out, cmd) {
			t.Fatalf("help missing %s:\n%s", cmd, out)
		}
	}
}

func TestInitIdempotent(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		out, err := run(t, "", "--db", filepath.Join(dir, "meds.db"), "--seed", filepath.Join(dir, "seed.json"), "init")
		if err != nil {
			t.Fatalf("init run %d: %v", i+1, err)
		}
		if !strings.Contains(out, "0 official") {
			t.Fatalf("unexpected init output %q", out)
		}
	}
}

func TestExportThenInitElsewhere(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.json")
	source := filepath.Join(dir, "source.db")
	seedCatalog(t, source, seedPath,
		domain.CatalogEntry{Barcode: "1", Name: "Official", IsStandard: true},
		domain.CatalogEntry{Barcode: "2", Name: "Mine"},
	)

	out, err := run(t, "", "--db", source, "--seed", seedPath, "export-seed")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 1 official entries") {
		t.Fatalf("unexpected export output %q", out)
	}

	out, err = run(t, "", "--db", filepath.Join(dir, "target.db"), "--seed", seedPath, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "1 official, 0 user") {
		t.Fatalf("seed not imported on init: %q", out)
	}

	out, err = run(t, "", "--db", filepath.Join(dir, "target.db"), "--seed", seedPath, "import-seed")
	if err != nil || !strings.Contains(out, "Imported 1 official entries") {
		t.Fatalf("import-seed: %q (%v)", out, err)
	}
}

func TestImportSeedReportsMissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "", "--db", filepath.Join(dir, "meds.db"), "--seed", filepath.Join(dir, "absent.json"), "import-seed"); err == nil {
		t.Fatalf("expected error for missing snapshot")
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "meds.db")
	seedPath := filepath.Join(dir, "seed.json")
	seedCatalog(t, dbPath, seedPath,
		domain.CatalogEntry{Barcode: "1", Name: "Official", IsStandard: true},
		domain.CatalogEntry{Barcode: "2", Name: "Mine"},
	)
	if _, err := run(t, "", "--db", dbPath, "--seed", seedPath, "export-seed"); err != nil {
		t.Fatalf("export: %v", err)
	}

	if _, err := run(t, "no\n", "--db", dbPath, "--seed", seedPath, "reset"); err == nil || !strings.Contains(err.Error(), "aborted") {
		t.Fatalf("expected aborted reset, got %v", err)
	}
	out, err := run(t, "", "--db", dbPath, "--seed", seedPath, "init")
	if err != nil || !strings.Contains(out, "1 official, 1 user") {
		t.Fatalf("data must survive an aborted reset: %q (%v)", out, err)
	}

	if _, err := run(t, "reset\n", "--db", dbPath, "--seed", seedPath, "reset"); err != nil {
		t.Fatalf("confirmed reset: %v", err)
	}
	out, err = run(t, "", "--db", dbPath, "--seed", seedPath, "init")
	if err != nil || !strings.Contains(out, "1 official, 0 user") {
		t.Fatalf("reset must drop user data and re-import the seed: %q (%v)", out, err)
	}

	seedCatalog(t, dbPath, seedPath, domain.CatalogEntry{Barcode: "3", Name: "Mine again"})
	if _, err := run(t, "", "--db", dbPath, "--seed", seedPath, "reset", "--yes"); err != nil {
		t.Fatalf("reset --yes: %v", err)
	}
	out, _ = run(t, "", "--db", dbPath, "--seed", seedPath, "init")
	if !strings.Contains(out, "1 official, 0 user") {
		t.Fatalf("unexpected state after reset --yes: %q", out)
	}
}
