package storage

import (
	"context"
	"sync"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище диалогов бота.
// Наружу отдаются копии, изменения сохраняются только через Save и UpdateState.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает сессию по ID пользователя, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[userID]
	if exists {
		cp := *session
		r.mu.RUnlock()
		return &cp, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Другая горутина могла успеть создать сессию
	session, exists = r.sessions[userID]
	if !exists {
		session = entity.NewSession(userID, chatID)
		r.sessions[userID] = session
	}
	cp := *session

	return &cp, nil
}

// Save сохраняет состояние сессии
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	cp := *session
	r.mu.Lock()
	r.sessions[session.UserID] = &cp
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние сессии
func (r *MemorySessionRepository) UpdateState(ctx context.Context, userID int64, state entity.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, exists := r.sessions[userID]; exists {
		session.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
