package entity

// SessionState состояние пользователя в диалоге с ботом
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // В главном меню
	StateAwaitingPhoto SessionState = "awaiting_photo" // Ожидание фото товара
	StateProcessing    SessionState = "processing"     // Генерация постера
)

// Session диалог пользователя с ботом
type Session struct {
	UserID int64        // Telegram User ID
	ChatID int64        // Telegram Chat ID
	State  SessionState // Текущее состояние
}

// NewSession создаёт сессию в главном меню
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}
