package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "postergen/internal/application"
	"postergen/internal/container"
	"postergen/internal/domain/entity"
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	sessions   *app.SessionService
	palettes   *app.PaletteService
	analysis   *app.AnalysisService
	posters    *app.PosterService
	httpClient *http.Client
	fileURL    func(fileID string) (string, error)
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newBot(api, c, logger), nil
}

func newBot(api *tgbotapi.BotAPI, c *container.Container, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("authorized on account", zap.String("username", api.Self.UserName))

	return &Bot{
		api:        api,
		sessions:   c.SessionService,
		palettes:   c.PaletteService,
		analysis:   c.AnalysisService,
		posters:    c.PosterService,
		httpClient: http.DefaultClient,
		fileURL:    api.GetFileDirectURL,
		logger:     logger,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	session, err := b.sessions.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get session", zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		if session.State == entity.StateProcessing {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.transition(ctx, userID, chatID, b.sessions.Cancel)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "poster":
		b.transition(ctx, userID, chatID, b.sessions.BeginPoster)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "palettes":
		palettes, err := b.palettes.Frequent(ctx, app.DefaultFrequentLimit)
		if err != nil {
			b.logger.Error("frequent palettes", zap.Error(err))
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, formatPalettes(palettes))

	case "cancel":
		b.transition(ctx, userID, chatID, b.sessions.Cancel)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto запускает генерацию постера в отдельной горутине
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	form := ParseCaption(msg.Caption)
	if form.Headline == "" {
		b.sendMessage(msg.Chat.ID, msgNoHeadline)
		return
	}

	userID, chatID := msg.From.ID, msg.Chat.ID
	b.transition(ctx, userID, chatID, b.sessions.StartProcessing)
	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer b.transition(ctx, userID, chatID, b.sessions.Cancel)

		if err := b.makePoster(ctx, chatID, photo.FileID, form); err != nil {
			b.logger.Error("make poster", zap.Int64("user_id", userID), zap.Error(err))
			b.sendMessage(chatID, msgProcessingError)
		}
	}()
}

func (b *Bot) makePoster(ctx context.Context, chatID int64, fileID string, form entity.PosterForm) error {
	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		return err
	}

	analysis, err := b.analysis.Analyze(ctx, imageData, http.DetectContentType(imageData))
	if err != nil {
		return err
	}

	result, err := b.posters.Generate(ctx, app.PosterRequest{
		Form:    form,
		Objects: analysis.Analysis.Objects,
	})
	if err != nil {
		return err
	}

	if !result.Passed {
		b.sendMessage(chatID, formatVerdict(result.Compliance))
		return nil
	}

	b.sendMessage(chatID, msgPassed)
	for _, l := range result.Layouts {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  layoutFileName(l),
			Bytes: []byte(l.Content),
		})
		if _, err := b.api.Send(doc); err != nil {
			return fmt.Errorf("send layout: %w", err)
		}
	}
	return nil
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.fileURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// transition переводит сессию пользователя в новое состояние
func (b *Bot) transition(ctx context.Context, userID, chatID int64, fn func(context.Context, int64, int64) (*entity.Session, error)) {
	if _, err := fn(ctx, userID, chatID); err != nil {
		b.logger.Error("save session", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", zap.Error(err))
	}
}
