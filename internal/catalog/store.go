// Package catalog owns the shared drug-fact records and the official/user trust split.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"homemeds/m/domain"
)

const columns = `barcode, name, manufacturer, spec, form, unit, indications, std_usage,
	adverse_reactions, contraindications, precautions, pregnancy_lactation_use,
	child_use, elderly_use, tags, is_standard, created_at`

const upsertSQL = `INSERT INTO medicine_catalog (
	barcode, name, manufacturer, spec, form, unit, indications, std_usage,
	adverse_reactions, contraindications, precautions, pregnancy_lactation_use,
	child_use, elderly_use, tags, is_standard, created_at
) VALUES (
	:barcode, :name, :manufacturer, :spec, :form, :unit, :indications, :std_usage,
	:adverse_reactions, :contraindications, :precautions, :pregnancy_lactation_use,
	:child_use, :elderly_use, :tags, :is_standard, :created_at
)
ON CONFLICT(barcode) DO UPDATE SET
	name=excluded.name, manufacturer=excluded.manufacturer, spec=excluded.spec,
	form=excluded.form, unit=excluded.unit, indications=excluded.indications,
	std_usage=excluded.std_usage, adverse_reactions=excluded.adverse_reactions,
	contraindications=excluded.contraindications, precautions=excluded.precautions,
	pregnancy_lactation_use=excluded.pregnancy_lactation_use, child_use=excluded.child_use,
	elderly_use=excluded.elderly_use, tags=excluded.tags, is_standard=excluded.is_standard`

// Order selects the secondary sort of ListAll. Official entries always come first.
type Order string

const (
	OrderRecent Order = "recent"
	OrderName   Order = "name"
)

// Counts splits the catalog size by trust level.
type Counts struct {
	Official int `db:"official" json:"official"`
	User     int `db:"user_entered" json:"user"`
}

// Store persists catalog entries in the medicine_catalog table.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore constructs a Store.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Lookup resolves query as an exact barcode, falling back to a case-insensitive
// substring match on name. Among several name matches the exact name wins, then
// the shortest name, then the earliest inserted entry.
func (s *Store) Lookup(ctx context.Context, query string) (domain.CatalogEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.CatalogEntry{}, fmt.Errorf("lookup empty query: %w", domain.ErrNotFound)
	}
	var entry domain.CatalogEntry
	err := s.db.GetContext(ctx, &entry, `SELECT `+columns+` FROM medicine_catalog WHERE barcode = ?`, query)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.CatalogEntry{}, fmt.Errorf("lookup barcode %s: %w", query, err)
	}

	// SQLite only folds ASCII case, so names are matched here.
	candidates := []domain.CatalogEntry{}
	if err := s.db.SelectContext(ctx, &candidates, `SELECT `+columns+` FROM medicine_catalog ORDER BY rowid`); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("lookup name %q: %w", query, err)
	}
	best, ok := bestNameMatch(candidates, query)
	if !ok {
		return domain.CatalogEntry{}, fmt.Errorf("lookup %q: %w", query, domain.ErrNotFound)
	}
	return best, nil
}

// bestNameMatch picks among entries (in insertion order) whose name contains
// query: an exact name first, then the shortest name, then the earliest.
func bestNameMatch(entries []domain.CatalogEntry, query string) (domain.CatalogEntry, bool) {
	q := strings.ToLower(query)
	var (
		best      domain.CatalogEntry
		bestExact bool
		bestLen   int
		found     bool
	)
	for _, e := range entries {
		name := strings.ToLower(e.Name)
		if !strings.Contains(name, q) {
			continue
		}
		exact := name == q
		n := utf8.RuneCountInString(e.Name)
		switch {
		case !found,
			exact && !bestExact,
			exact == bestExact && n < bestLen:
			best, bestExact, bestLen, found = e, exact, n, true
		}
	}
	return best, found
}

// Get returns the entry stored under barcode.
func (s *Store) Get(ctx context.Context, barcode string) (domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	err := s.db.GetContext(ctx, &entry, `SELECT `+columns+` FROM medicine_catalog WHERE barcode = ?`, barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CatalogEntry{}, fmt.Errorf("catalog entry %s: %w", barcode, domain.ErrNotFound)
	}
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("get catalog entry %s: %w", barcode, err)
	}
	return entry, nil
}

// Upsert inserts entry or fully replaces the descriptive fields and is_standard
// of the existing entry with the same barcode. Fields left empty clear the
// stored value. Writing official data, or overwriting it, needs a maintainer.
func (s *Store) Upsert(ctx context.Context, caller domain.Caller, entry domain.CatalogEntry) (domain.CatalogEntry, error) {
	entry, err := normalize(entry)
	if err != nil {
		return domain.CatalogEntry{}, err
	}
	if entry.IsStandard && !caller.Maintainer {
		return domain.CatalogEntry{}, fmt.Errorf("mark %s as official: %w", entry.Barcode, domain.ErrPermissionDenied)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var isStandard bool
	err = tx.GetContext(ctx, &isStandard, `SELECT is_standard FROM medicine_catalog WHERE barcode = ?`, entry.Barcode)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return domain.CatalogEntry{}, fmt.Errorf("check catalog entry %s: %w", entry.Barcode, err)
	case isStandard && !caller.Maintainer:
		return domain.CatalogEntry{}, fmt.Errorf("overwrite official entry %s: %w", entry.Barcode, domain.ErrPermissionDenied)
	}

	entry.CreatedAt = domain.Timestamp(s.now())
	if _, err := tx.NamedExecContext(ctx, upsertSQL, entry); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("upsert catalog entry %s: %w", entry.Barcode, err)
	}

	var stored domain.CatalogEntry
	if err := tx.GetContext(ctx, &stored, `SELECT `+columns+` FROM medicine_catalog WHERE barcode = ?`, entry.Barcode); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("reload catalog entry %s: %w", entry.Barcode, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("commit upsert: %w", err)
	}
	return stored, nil
}

// ImportOfficial force-writes entries as official data in one transaction,
// bypassing the maintainer check. It is reserved for seed import and returns
// the number of distinct barcodes written; a repeated barcode keeps its last record.
func (s *Store) ImportOfficial(ctx context.Context, entries []domain.CatalogEntry) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	createdAt := domain.Timestamp(s.now())
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		entry, err := normalize(entry)
		if err != nil {
			return 0, err
		}
		entry.IsStandard = true
		entry.CreatedAt = createdAt
		if _, err := stmt.ExecContext(ctx, entry); err != nil {
			return 0, fmt.Errorf("import catalog entry %s: %w", entry.Barcode, err)
		}
		seen[entry.Barcode] = struct{}{}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(seen), nil
}

// ListAll returns every entry, official entries first.
func (s *Store) ListAll(ctx context.Context, order Order) ([]domain.CatalogEntry, error) {
	orderBy := "is_standard DESC, created_at DESC, rowid DESC"
	if order == OrderName {
		orderBy = "is_standard DESC, name ASC, rowid ASC"
	}
	entries := []domain.CatalogEntry{}
	if err := s.db.SelectContext(ctx, &entries, `SELECT `+columns+` FROM medicine_catalog ORDER BY `+orderBy); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return entries, nil
}

// ListOfficial returns the official entries ordered by barcode.
func (s *Store) ListOfficial(ctx context.Context) ([]domain.CatalogEntry, error) {
	entries := []domain.CatalogEntry{}
	if err := s.db.SelectContext(ctx, &entries, `SELECT `+columns+` FROM medicine_catalog WHERE is_standard = 1 ORDER BY barcode`); err != nil {
		return nil, fmt.Errorf("list official catalog: %w", err)
	}
	return entries, nil
}

// Delete removes the entry for barcode. It fails while inventory lots still
// reference the barcode, and official entries need a maintainer.
func (s *Store) Delete(ctx context.Context, caller domain.Caller, barcode string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	var isStandard bool
	err = tx.GetContext(ctx, &isStandard, `SELECT is_standard FROM medicine_catalog WHERE barcode = ?`, barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("catalog entry %s: %w", barcode, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check catalog entry %s: %w", barcode, err)
	}
	if isStandard && !caller.Maintainer {
		return fmt.Errorf("delete official entry %s: %w", barcode, domain.ErrPermissionDenied)
	}

	var lots int
	if err := tx.GetContext(ctx, &lots, `SELECT COUNT(*) FROM inventory WHERE barcode = ?`, barcode); err != nil {
		return fmt.Errorf("count lots for %s: %w", barcode, err)
	}
	if lots > 0 {
		return fmt.Errorf("delete %s with %d lots: %w", barcode, lots, domain.ErrBarcodeInUse)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM medicine_catalog WHERE barcode = ?`, barcode); err != nil {
		return fmt.Errorf("delete catalog entry %s: %w", barcode, err)
	}
	return tx.Commit()
}

// Count reports how many official and user-entered entries exist.
func (s *Store) Count(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.GetContext(ctx, &c, `SELECT
		COALESCE(SUM(CASE WHEN is_standard = 1 THEN 1 ELSE 0 END), 0) AS official,
		COALESCE(SUM(CASE WHEN is_standard = 1 THEN 0 ELSE 1 END), 0) AS user_entered
		FROM medicine_catalog`)
	if err != nil {
		return Counts{}, fmt.Errorf("count catalog: %w", err)
	}
	return c, nil
}

func normalize(entry domain.CatalogEntry) (domain.CatalogEntry, error) {
	entry.Barcode = strings.TrimSpace(entry.Barcode)
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Barcode == "" {
		return domain.CatalogEntry{}, domain.Validationf("barcode is required")
	}
	if entry.Name == "" {
		return domain.CatalogEntry{}, domain.Validationf("name is required for barcode %s", entry.Barcode)
	}
	return entry, nil
}
