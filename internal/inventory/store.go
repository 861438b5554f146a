// Package inventory manages stock lots. Every lot references an existing catalog barcode.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"homemeds/m/domain"
)

const columns = `id, barcode, expiry_date, quantity_val, owner, my_dosage, created_at`

// NewLot is the input of Add.
type NewLot struct {
	Barcode     string      `json:"barcode"`
	ExpiryDate  domain.Date `json:"expiry_date"`
	QuantityVal float64     `json:"quantity_val"`
	Owner       string      `json:"owner"`
	MyDosage    string      `json:"my_dosage"`
}

// Store persists lots in the inventory table.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore constructs a Store.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Add creates a lot for a barcode that already exists in the catalog.
func (s *Store) Add(ctx context.Context, lot NewLot) (domain.InventoryLot, error) {
	lot.Barcode = strings.TrimSpace(lot.Barcode)
	if lot.Barcode == "" {
		return domain.InventoryLot{}, domain.Validationf("barcode is required")
	}
	if lot.ExpiryDate.IsZero() {
		return domain.InventoryLot{}, domain.Validationf("expiry_date is required")
	}
	if !validAmount(lot.QuantityVal) || lot.QuantityVal <= 0 {
		return domain.InventoryLot{}, domain.Validationf("quantity_val must be greater than zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.InventoryLot{}, fmt.Errorf("begin add: %w", err)
	}
	defer tx.Rollback()

	var known int
	if err := tx.GetContext(ctx, &known, `SELECT COUNT(*) FROM medicine_catalog WHERE barcode = ?`, lot.Barcode); err != nil {
		return domain.InventoryLot{}, fmt.Errorf("check barcode %s: %w", lot.Barcode, err)
	}
	if known == 0 {
		return domain.InventoryLot{}, fmt.Errorf("add lot for %s: %w", lot.Barcode, domain.ErrUnknownBarcode)
	}

	created := domain.InventoryLot{
		Barcode:     lot.Barcode,
		ExpiryDate:  lot.ExpiryDate,
		QuantityVal: lot.QuantityVal,
		Owner:       strings.TrimSpace(lot.Owner),
		MyDosage:    lot.MyDosage,
		CreatedAt:   domain.Timestamp(s.now()),
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO inventory (barcode, expiry_date, quantity_val, owner, my_dosage, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		created.Barcode, created.ExpiryDate, created.QuantityVal, created.Owner, created.MyDosage, created.CreatedAt)
	if err != nil {
		return domain.InventoryLot{}, fmt.Errorf("insert lot for %s: %w", lot.Barcode, err)
	}
	if created.ID, err = res.LastInsertId(); err != nil {
		return domain.InventoryLot{}, fmt.Errorf("read lot id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.InventoryLot{}, fmt.Errorf("commit add: %w", err)
	}
	return created, nil
}

// Get returns the lot with id.
func (s *Store) Get(ctx context.Context, id int64) (domain.InventoryLot, error) {
	var lot domain.InventoryLot
	err := s.db.GetContext(ctx, &lot, `SELECT `+columns+` FROM inventory WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryLot{}, fmt.Errorf("lot %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.InventoryLot{}, fmt.Errorf("get lot %d: %w", id, err)
	}
	return lot, nil
}

// SetQuantity overwrites the remaining quantity. Zero keeps the lot; deleting it is a separate call.
func (s *Store) SetQuantity(ctx context.Context, id int64, value float64) error {
	if !validAmount(value) || value < 0 {
		return domain.Validationf("quantity_val must not be negative")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE inventory SET quantity_val = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("update lot %d: %w", id, err)
	}
	return expectRow(res, id)
}

// Decrement consumes amount from the lot, clamping at zero, and returns what remains.
func (s *Store) Decrement(ctx context.Context, id int64, amount float64) (float64, error) {
	if !validAmount(amount) || amount <= 0 {
		return 0, domain.Validationf("amount must be greater than zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin decrement: %w", err)
	}
	defer tx.Rollback()

	var current float64
	err = tx.GetContext(ctx, &current, `SELECT quantity_val FROM inventory WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lot %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("read lot %d: %w", id, err)
	}

	remaining := math.Max(0, current-amount)
	if _, err := tx.ExecContext(ctx, `UPDATE inventory SET quantity_val = ? WHERE id = ?`, remaining, id); err != nil {
		return 0, fmt.Errorf("update lot %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit decrement: %w", err)
	}
	return remaining, nil
}

// Delete removes the lot. The catalog entry it references is left alone.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lot %d: %w", id, err)
	}
	return expectRow(res, id)
}

// CountByBarcode returns how many lots reference barcode.
func (s *Store) CountByBarcode(ctx context.Context, barcode string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM inventory WHERE barcode = ?`, barcode); err != nil {
		return 0, fmt.Errorf("count lots for %s: %w", barcode, err)
	}
	return n, nil
}

func expectRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for lot %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("lot %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
