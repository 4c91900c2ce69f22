package port

import (
	"context"

	"postergen/internal/domain/entity"
)

// PaletteRepository интерфейс хранилища палитр
type PaletteRepository interface {
	// Increment атомарно создаёт палитру или увеличивает её счётчик
	Increment(ctx context.Context, palette entity.Palette) error

	// Top возвращает limit самых используемых палитр
	Top(ctx context.Context, limit int) ([]entity.Palette, error)
}

// SessionRepository интерфейс хранилища диалогов бота
type SessionRepository interface {
	// Get возвращает сессию пользователя, создаёт новую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.Session, error)

	// Save сохраняет состояние сессии
	Save(ctx context.Context, session *entity.Session) error

	// UpdateState обновляет состояние сессии
	UpdateState(ctx context.Context, userID int64, state entity.SessionState) error
}
