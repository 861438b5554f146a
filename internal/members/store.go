// Package members keeps the household member names lots can be assigned to.
package members

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"homemeds/m/domain"
)

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// List returns members in the order they were added.
func (s *Store) List(ctx context.Context) ([]domain.Member, error) {
	members := []domain.Member{}
	if err := s.db.SelectContext(ctx, &members, `SELECT id, name, created_at FROM family_members ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// Add registers a new member name. Names are unique.
func (s *Store) Add(ctx context.Context, name string) (domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Member{}, domain.Validationf("member name is required")
	}
	if strings.EqualFold(name, domain.OwnerShared) || strings.EqualFold(name, "all") {
		return domain.Member{}, domain.Validationf("%q is reserved", name)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Member{}, fmt.Errorf("begin add member: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM family_members WHERE name = ?`, name); err != nil {
		return domain.Member{}, fmt.Errorf("check member %s: %w", name, err)
	}
	if exists > 0 {
		return domain.Member{}, domain.Validationf("member %q already exists", name)
	}

	m := domain.Member{Name: name, CreatedAt: domain.Timestamp(s.now())}
	res, err := tx.ExecContext(ctx, `INSERT INTO family_members (name, created_at) VALUES (?, ?)`, m.Name, m.CreatedAt)
	if err != nil {
		return domain.Member{}, fmt.Errorf("insert member %s: %w", name, err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return domain.Member{}, fmt.Errorf("read member id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Member{}, fmt.Errorf("commit add member: %w", err)
	}
	return m, nil
}

// Delete removes a member name. Lots already assigned to it keep their owner text.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM family_members WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete member %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for member %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("member %s: %w", name, domain.ErrNotFound)
	}
	return nil
}
