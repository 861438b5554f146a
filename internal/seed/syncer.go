// Package seed moves the official part of the catalog between installs through
// a snapshot document. User-entered entries are never exported.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"homemeds/m/domain"
	"homemeds/m/internal/catalog"
)

// Syncer exports and imports the official catalog snapshot.
type Syncer struct {
	catalog   *catalog.Store
	snapshots SnapshotStore
}

func NewSyncer(catalog *catalog.Store, snapshots SnapshotStore) *Syncer {
	return &Syncer{catalog: catalog, snapshots: snapshots}
}

// Location reports where the snapshot is kept.
func (s *Syncer) Location() string { return s.snapshots.Location() }

// Export overwrites the snapshot with every official entry and returns how many were written.
func (s *Syncer) Export(ctx context.Context, caller domain.Caller) (int, error) {
	if !caller.Maintainer {
		return 0, fmt.Errorf("export seed: %w", domain.ErrPermissionDenied)
	}
	entries, err := s.catalog.ListOfficial(ctx)
	if err != nil {
		return 0, err
	}
	data, err := Encode(entries)
	if err != nil {
		return 0, err
	}
	if err := s.snapshots.Write(ctx, data); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Import force-writes every snapshot record as official data, overwriting local
// rows with the same barcode. Records without a barcode or name are skipped.
func (s *Syncer) Import(ctx context.Context) (int, error) {
	data, err := s.snapshots.Read(ctx)
	if err != nil {
		return 0, err
	}
	records, err := Decode(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s.snapshots.Location(), err)
	}

	entries := make([]domain.CatalogEntry, 0, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.Barcode) == "" || strings.TrimSpace(r.Name) == "" {
			log.Printf("skipping seed record %d: barcode and name are required", i)
			continue
		}
		entries = append(entries, r.Entry())
	}
	return s.catalog.ImportOfficial(ctx, entries)
}

// LoadOnStartup imports the snapshot if there is one. Failures are logged and
// never stop startup.
func (s *Syncer) LoadOnStartup(ctx context.Context) {
	n, err := s.Import(ctx)
	switch {
	case errors.Is(err, ErrSnapshotMissing):
		log.Printf("no seed snapshot at %s, skipping import", s.snapshots.Location())
	case err != nil:
		log.Printf("unable to import seed snapshot: %v", err)
	default:
		log.Printf("imported %d official catalog entries from %s", n, s.snapshots.Location())
	}
}
