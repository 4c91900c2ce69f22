package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"postergen/internal/domain/entity"
)

// SQLitePaletteRepository хранилище палитр в файле SQLite
type SQLitePaletteRepository struct {
	db *sql.DB
}

// OpenSQLitePaletteRepository открывает базу по пути path и применяет миграции.
func OpenSQLitePaletteRepository(ctx context.Context, path string) (*SQLitePaletteRepository, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Один писатель: SQLite всё равно сериализует запись
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrate(ctx, db, goose.DialectSQLite3, "sqlite"); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLitePaletteRepository{db: db}, nil
}

// Increment атомарно создаёт палитру или увеличивает её счётчик
func (r *SQLitePaletteRepository) Increment(ctx context.Context, palette entity.Palette) error {
	p := palette.Normalize()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO palettes (primary_color, secondary_color, accent_color, bg_color, usage_count)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT (primary_color, secondary_color, accent_color, bg_color)
		DO UPDATE SET usage_count = usage_count + 1, updated_at = CURRENT_TIMESTAMP
	`, p.Primary, p.Secondary, p.Accent, p.Background)
	if err != nil {
		return fmt.Errorf("increment palette: %w", err)
	}
	return nil
}

// Top возвращает limit самых используемых палитр
func (r *SQLitePaletteRepository) Top(ctx context.Context, limit int) ([]entity.Palette, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT primary_color, secondary_color, accent_color, bg_color, usage_count
		FROM palettes
		ORDER BY usage_count DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query palettes: %w", err)
	}
	defer rows.Close()

	var out []entity.Palette
	for rows.Next() {
		var p entity.Palette
		if err := rows.Scan(&p.Primary, &p.Secondary, &p.Accent, &p.Background, &p.UsageCount); err != nil {
			return nil, fmt.Errorf("scan palette: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close закрывает базу
func (r *SQLitePaletteRepository) Close() error { return r.db.Close() }

var _ PaletteStore = (*SQLitePaletteRepository)(nil)
