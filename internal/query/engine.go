// Package query joins inventory lots with the catalog and computes dashboard aggregates.
// Every call re-reads the store; nothing is cached.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"homemeds/m/domain"
)

const joinedViewSQL = `SELECT
	i.id, i.barcode, i.expiry_date, i.quantity_val, i.owner, i.my_dosage, i.created_at,
	c.barcode IS NOT NULL AS catalog_found,
	COALESCE(c.name, '') AS name,
	COALESCE(c.manufacturer, '') AS manufacturer,
	COALESCE(c.spec, '') AS spec,
	COALESCE(c.form, '') AS form,
	COALESCE(c.unit, '') AS unit,
	COALESCE(c.indications, '') AS indications,
	COALESCE(c.std_usage, '') AS std_usage,
	COALESCE(c.contraindications, '') AS contraindications,
	COALESCE(c.child_use, '') AS child_use,
	COALESCE(c.tags, '') AS tags,
	COALESCE(c.is_standard, 0) AS is_standard
FROM inventory i
LEFT JOIN medicine_catalog c ON i.barcode = c.barcode
ORDER BY i.expiry_date ASC, i.id ASC`

// Engine produces the joined inventory view.
type Engine struct {
	db  *sqlx.DB
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used to decide today's date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs an Engine.
func NewEngine(db *sqlx.DB, opts ...Option) *Engine {
	e := &Engine{db: db, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current local calendar date.
func (e *Engine) Today() domain.Date {
	return domain.DateOf(e.now())
}

// LoadJoinedView returns every lot joined with its catalog entry, earliest expiry first.
// Lots whose barcode is missing from the catalog are kept with empty catalog columns.
func (e *Engine) LoadJoinedView(ctx context.Context) ([]domain.JoinedRow, error) {
	return e.LoadJoinedViewAt(ctx, e.Today())
}

// LoadJoinedViewAt is LoadJoinedView with rows classified against today.
func (e *Engine) LoadJoinedViewAt(ctx context.Context, today domain.Date) ([]domain.JoinedRow, error) {
	rows := []domain.JoinedRow{}
	if err := e.db.SelectContext(ctx, &rows, joinedViewSQL); err != nil {
		return nil, fmt.Errorf("load joined view: %w", err)
	}
	for i := range rows {
		r := &rows[i]
		r.QuantityDisplay = domain.FormatQuantity(r.QuantityVal, r.Unit)
		r.Status = domain.ClassifyExpiry(r.ExpiryDate, today)
		r.DaysLeft = today.DaysUntil(r.ExpiryDate)
	}
	return rows, nil
}

// DashboardMetrics counts all lots and splits them into expired, expiring-soon and normal.
func (e *Engine) DashboardMetrics(ctx context.Context) (domain.DashboardMetrics, error) {
	rows, err := e.LoadJoinedView(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	return Summarize(rows), nil
}

// Summarize aggregates already classified rows.
func Summarize(rows []domain.JoinedRow) domain.DashboardMetrics {
	m := domain.DashboardMetrics{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case domain.StatusExpired:
			m.Expired++
		case domain.StatusExpiringSoon:
			m.ExpiringSoon++
		default:
			m.Normal++
		}
	}
	return m
}

// Filter narrows a loaded view.
type Filter struct {
	// Search matches any joined text column, ignoring case.
	Search string
	// Owner must equal the lot owner exactly. Empty or "all" disables it.
	Owner string
}

// Apply returns the rows matching f without modifying rows or the store.
func (f Filter) Apply(rows []domain.JoinedRow) []domain.JoinedRow {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	owner := strings.TrimSpace(f.Owner)
	if strings.EqualFold(owner, "all") {
		owner = ""
	}
	out := make([]domain.JoinedRow, 0, len(rows))
	for _, r := range rows {
		if owner != "" && r.Owner != owner {
			continue
		}
		if term != "" && !matches(r, term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r domain.JoinedRow, term string) bool {
	for _, field := range r.SearchText() {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
