package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"homemeds/m/domain"
	"homemeds/m/internal/catalog"
	"homemeds/m/internal/inventory"
	"homemeds/m/internal/query"
	"homemeds/m/internal/testutil"
)

type staticView struct {
	rows []domain.JoinedRow
	err  error
}

func (v staticView) LoadJoinedView(context.Context) ([]domain.JoinedRow, error) {
	return v.rows, v.err
}

func TestBuildContextSentinels(t *testing.T) {
	ctx := context.Background()

	got, err := NewBuilder(staticView{}).BuildContext(ctx)
	if err != nil || got != ContextEmpty {
		t.Fatalf("expected empty sentinel, got %q (%v)", got, err)
	}

	expired := staticView{rows: []domain.JoinedRow{
		{Name: "Old syrup", Status: domain.StatusExpired},
		{Name: "Older syrup", Status: domain.StatusExpired},
	}}
	got, err = NewBuilder(expired).BuildContext(ctx)
	if err != nil || got != ContextAllExpired {
		t.Fatalf("expected all-expired sentinel, got %q (%v)", got, err)
	}
}

func TestBuildContextPropagatesViewError(t *testing.T) {
	boom := errors.New("disk gone")
	if _, err := NewBuilder(staticView{err: boom}).BuildContext(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected view error, got %v", err)
	}
}

func TestLineTruncatesSafetyFields(t *testing.T) {
	long := strings.Repeat("禁", 60)
	line := Line(domain.JoinedRow{
		Barcode:           "1",
		Name:              "Ibuprofen",
		Manufacturer:      "Acme",
		QuantityDisplay:   "20 tablet",
		ExpiryDate:        domain.NewDate(2030, 1, 2),
		Contraindications: long,
		ChildUse:          "not under 6",
		MyDosage:          "one after dinner",
		IsStandard:        true,
	})
	want := "- Ibuprofen [official] | manufacturer: Acme | remaining: 20 tablet | owner: shared | expires: 2030-01-02" +
		" | contraindications: " + strings.Repeat("禁", FieldCap) + "..." +
		" | child use: not under 6 | note: one after dinner"
	if line != want {
		t.Fatalf("unexpected line:\n got %s\nwant %s", line, want)
	}
}

func TestLineForUnknownBarcode(t *testing.T) {
	line := Line(domain.JoinedRow{Barcode: "ghost", QuantityDisplay: "3", Owner: "kid", ExpiryDate: domain.NewDate(2030, 1, 2)})
	if !strings.HasPrefix(line, "- barcode ghost [user] | remaining: 3 | owner: kid") {
		t.Fatalf("unexpected line %s", line)
	}
	if strings.Contains(line, "\n") {
		t.Fatalf("line must be single line")
	}
}

func TestBuildContextExcludesExpiredLots(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	today := domain.DateOf(now)

	cat := catalog.NewStore(db)
	for _, e := range []domain.CatalogEntry{
		{Barcode: "1", Name: "Ibuprofen", Unit: "tablet", Manufacturer: "Acme", IsStandard: true},
		{Barcode: "2", Name: "Cough syrup", Unit: "ml", ChildUse: "Not for children under 2"},
	} {
		if _, err := cat.Upsert(ctx, domain.Caller{Maintainer: true}, e); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	inv := inventory.NewStore(db)
	for _, lot := range []inventory.NewLot{
		{Barcode: "1", ExpiryDate: today, QuantityVal: 20, Owner: "kid"},
		{Barcode: "2", ExpiryDate: today.AddDays(-1), QuantityVal: 100},
		{Barcode: "2", ExpiryDate: today.AddDays(200), QuantityVal: 0.5},
	} {
		if _, err := inv.Add(ctx, lot); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	engine := query.NewEngine(db, query.WithClock(func() time.Time { return now }))
	got, err := NewBuilder(engine).BuildContext(ctx)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 valid lots, got %d:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[0], "Ibuprofen [official]") || !strings.Contains(lines[0], "remaining: 20 tablet") || !strings.Contains(lines[0], "owner: kid") {
		t.Fatalf("unexpected first line %s", lines[0])
	}
	if !strings.Contains(lines[1], "Cough syrup [user]") || !strings.Contains(lines[1], "remaining: 0.5 ml") || !strings.Contains(lines[1], "owner: shared") {
		t.Fatalf("unexpected second line %s", lines[1])
	}
	if strings.Contains(got, "100 ml") {
		t.Fatalf("expired lot leaked into context:\n%s", got)
	}
}
