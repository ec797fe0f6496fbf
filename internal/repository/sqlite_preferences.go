package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wbshub/internal/db"
	"github.com/alexanderramin/wbshub/internal/domain"
)

// SQLitePreferencesRepo implements PreferencesRepo using a SQLite database.
type SQLitePreferencesRepo struct {
	db db.DBTX
}

// NewSQLitePreferencesRepo creates a new SQLitePreferencesRepo.
func NewSQLitePreferencesRepo(conn db.DBTX) *SQLitePreferencesRepo {
	return &SQLitePreferencesRepo{db: conn}
}

func (r *SQLitePreferencesRepo) Get(ctx context.Context) (*domain.Preferences, error) {
	query := `SELECT id, endpoint, wbs_type, wbs_code, project
		FROM preferences WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, DefaultPreferencesID)

	var p domain.Preferences
	err := row.Scan(&p.ID, &p.Endpoint, &p.WBSType, &p.WBSCode, &p.Project)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning preferences: %w", err)
	}
	return &p, nil
}

func (r *SQLitePreferencesRepo) Upsert(ctx context.Context, p *domain.Preferences) error {
	if p.ID == "" {
		p.ID = DefaultPreferencesID
	}
	query := `INSERT OR REPLACE INTO preferences (id, endpoint, wbs_type, wbs_code, project, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Endpoint,
		p.WBSType,
		p.WBSCode,
		p.Project,
		formatTimestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}
