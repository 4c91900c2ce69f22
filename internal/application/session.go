package app

import (
	"context"

	"postergen/internal/domain/entity"
	"postergen/internal/domain/port"
)

// SessionService управляет состоянием диалога с ботом
type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState меняет состояние, создавая сессию при первом обращении
func (s *SessionService) SetState(ctx context.Context, userID, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}
	session.SetState(state)

	return session, nil
}

// BeginPoster переводит пользователя к отправке фото товара
func (s *SessionService) BeginPoster(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

// StartProcessing отмечает, что постер генерируется
func (s *SessionService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateProcessing)
}

func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
