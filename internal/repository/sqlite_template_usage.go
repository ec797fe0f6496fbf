package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/wbshub/internal/db"
)

// SQLiteTemplateUsageRepo implements TemplateUsageRepo using a SQLite database.
type SQLiteTemplateUsageRepo struct {
	db db.DBTX
}

// NewSQLiteTemplateUsageRepo creates a new SQLiteTemplateUsageRepo.
func NewSQLiteTemplateUsageRepo(conn db.DBTX) *SQLiteTemplateUsageRepo {
	return &SQLiteTemplateUsageRepo{db: conn}
}

func (r *SQLiteTemplateUsageRepo) RecordBatch(ctx context.Context, wbsType string, at time.Time) error {
	query := `INSERT INTO template_usage (wbs_type, batches, last_used_at) VALUES (?, 1, ?)
		ON CONFLICT(wbs_type) DO UPDATE SET
			batches = batches + 1,
			last_used_at = excluded.last_used_at`
	if _, err := r.db.ExecContext(ctx, query, wbsType, formatTimestamp(at)); err != nil {
		return fmt.Errorf("recording template usage: %w", err)
	}
	return nil
}

// List returns usage rows, most recently used first.
func (r *SQLiteTemplateUsageRepo) List(ctx context.Context) ([]TemplateUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT wbs_type, batches, last_used_at FROM template_usage ORDER BY last_used_at DESC, wbs_type`)
	if err != nil {
		return nil, fmt.Errorf("listing template usage: %w", err)
	}
	defer rows.Close()

	var out []TemplateUsage
	for rows.Next() {
		var u TemplateUsage
		var last string
		if err := rows.Scan(&u.WBSType, &u.Batches, &last); err != nil {
			return nil, fmt.Errorf("scanning template usage: %w", err)
		}
		u.LastUsedAt = parseTimestamp(last)
		out = append(out, u)
	}
	return out, rows.Err()
}
