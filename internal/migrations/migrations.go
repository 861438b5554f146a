package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TEXT NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS family_members (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL UNIQUE,
            created_at TEXT NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS medicine_catalog (
            barcode TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            manufacturer TEXT NOT NULL DEFAULT '',
            spec TEXT NOT NULL DEFAULT '',
            form TEXT NOT NULL DEFAULT '',
            unit TEXT NOT NULL DEFAULT '',
            indications TEXT NOT NULL DEFAULT '',
            std_usage TEXT NOT NULL DEFAULT '',
            adverse_reactions TEXT NOT NULL DEFAULT '',
            contraindications TEXT NOT NULL DEFAULT '',
            precautions TEXT NOT NULL DEFAULT '',
            pregnancy_lactation_use TEXT NOT NULL DEFAULT '',
            child_use TEXT NOT NULL DEFAULT '',
            elderly_use TEXT NOT NULL DEFAULT '',
            tags TEXT NOT NULL DEFAULT '',
            is_standard INTEGER NOT NULL DEFAULT 0,
            created_at TEXT NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            barcode TEXT NOT NULL,
            expiry_date TEXT NOT NULL,
            quantity_val REAL NOT NULL CHECK(quantity_val >= 0),
            owner TEXT NOT NULL DEFAULT '',
            my_dosage TEXT NOT NULL DEFAULT '',
            created_at TEXT NOT NULL,
            FOREIGN KEY(barcode) REFERENCES medicine_catalog(barcode)
        );`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_barcode ON inventory(barcode);`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_expiry_date ON inventory(expiry_date);`,
}

// Run creates the database schema. It is safe to call on every startup.
func Run(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Reset drops every table and recreates the schema. All data is lost.
func Reset(db *sqlx.DB) error {
	drops := []string{
		`DROP TABLE IF EXISTS inventory;`,
		`DROP TABLE IF EXISTS medicine_catalog;`,
		`DROP TABLE IF EXISTS family_members;`,
		`DROP TABLE IF EXISTS users;`,
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()
	for _, stmt := range drops {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return Run(db)
}
