package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"postergen/internal/domain/entity"
)

// PostgresPaletteRepository хранилище палитр в PostgreSQL
type PostgresPaletteRepository struct {
	pool *pgxpool.Pool
}

// OpenPostgresPaletteRepository подключается по dsn и применяет миграции.
func OpenPostgresPaletteRepository(ctx context.Context, dsn string) (*PostgresPaletteRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migratePool(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresPaletteRepository{pool: pool}, nil
}

// migratePool прогоняет миграции через временный *sql.DB поверх пула. Закрытие db
// возвращает соединения в пул, сам пул остаётся открытым.
func migratePool(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrate(ctx, db, goose.DialectPostgres, "postgres")
}

// Increment атомарно создаёт палитру или увеличивает её счётчик
func (r *PostgresPaletteRepository) Increment(ctx context.Context, palette entity.Palette) error {
	p := palette.Normalize()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO palettes (primary_color, secondary_color, accent_color, bg_color, usage_count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (primary_color, secondary_color, accent_color, bg_color)
		DO UPDATE SET usage_count = palettes.usage_count + 1, updated_at = now()
	`, p.Primary, p.Secondary, p.Accent, p.Background)
	if err != nil {
		return fmt.Errorf("increment palette: %w", err)
	}
	return nil
}

// Top возвращает limit самых используемых палитр
func (r *PostgresPaletteRepository) Top(ctx context.Context, limit int) ([]entity.Palette, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT primary_color, secondary_color, accent_color, bg_color, usage_count
		FROM palettes
		ORDER BY usage_count DESC, id ASC
		LIMIT $1
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

// Close закрывает пул соединений
func (r *PostgresPaletteRepository) Close() error {
	r.pool.Close()
	return nil
}

var _ PaletteStore = (*PostgresPaletteRepository)(nil)
