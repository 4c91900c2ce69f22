package storage

import (
	"context"
	"strings"

	"postergen/internal/domain/port"
)

// PaletteStore хранилище палитр, которое нужно закрыть после работы
type PaletteStore interface {
	port.PaletteRepository
	Close() error
}

// OpenPaletteStore выбирает хранилище по dsn. Пустая строка означает память,
// postgres:// и postgresql:// ведут в PostgreSQL, всё остальное считается путём к файлу SQLite.
func OpenPaletteStore(ctx context.Context, dsn string) (PaletteStore, error) {
	switch {
	case dsn == "":
		return NewMemoryPaletteRepository(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		repo, err := OpenPostgresPaletteRepository(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		repo, err := OpenSQLitePaletteRepository(ctx, strings.TrimPrefix(dsn, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}
