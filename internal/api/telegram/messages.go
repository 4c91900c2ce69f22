package telegram

import (
	"fmt"
	"strings"

	"postergen/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я делаю рекламные постеры для товаров и проверяю их на соответствие правилам ретейлера.

📸 Отправьте фото товара с подписью:
Заголовок | Подзаголовок | Цена | Цена по Clubcard

📋 Команды:
/poster — создать постер
/palettes — популярные палитры
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /poster
2️⃣ Пришлите фото товара с подписью «Заголовок | Подзаголовок | Цена | Цена по Clubcard»
3️⃣ Бот уберёт фон, свёрстает постер и проверит его
4️⃣ Если проверка пройдена, вы получите три формата: 1080×1080, 1080×1920 и 1200×628

💡 Рекомендации:
• Не пишите цены и скидки в заголовке, для них есть плашка
• Избегайте слов «гарантия», «лучший», «конкурс»
• Фото должно быть чётким, товар целиком в кадре

📋 Команды:
/poster — создать постер
/palettes — популярные палитры
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото товара с подписью «Заголовок | Подзаголовок | Цена | Цена по Clubcard»."
	msgCancelled       = "❌ Операция отменена. Отправьте /poster для нового постера."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото товара. Для справки используйте /help."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Готовлю постер..."
	msgBusy            = "⏳ Постер ещё готовится, подождите немного."
	msgNoHeadline      = "✏️ Добавьте к фото подпись хотя бы с заголовком."
	msgProcessingError = "⚠️ Не удалось подготовить постер. Попробуйте ещё раз."
	msgNoPalettes      = "🎨 Пока нет сохранённых палитр."
	msgPassed          = "✅ Постер прошёл проверку."
)

// ParseCaption разбирает подпись вида «заголовок | подзаголовок | цена | цена по Clubcard».
// Недостающие части остаются пустыми.
func ParseCaption(caption string) entity.PosterForm {
	var parts [4]string
	for i, p := range strings.SplitN(caption, "|", len(parts)) {
		parts[i] = strings.TrimSpace(p)
	}
	return entity.PosterForm{
		Headline:    parts[0],
		Subheadline: parts[1],
		Price:       parts[2],
		Offer:       parts[3],
	}
}

// formatVerdict текст для отклонённого постера
func formatVerdict(v entity.Verdict) string {
	var sb strings.Builder
	sb.WriteString("🚫 Постер не прошёл проверку.\n")
	sb.WriteString("Причина: ")
	sb.WriteString(v.Reason)
	for _, d := range v.Details {
		if d.Result == entity.RulePass {
			continue
		}
		fmt.Fprintf(&sb, "\n• %s (%s): %s", d.Rule, d.Result, d.Explain)
	}
	return sb.String()
}

func formatPalettes(palettes []entity.Palette) string {
	if len(palettes) == 0 {
		return msgNoPalettes
	}
	var sb strings.Builder
	sb.WriteString("🎨 Популярные палитры:")
	for i, p := range palettes {
		fmt.Fprintf(&sb, "\n%d. %s %s %s %s (%d)", i+1, p.Primary, p.Secondary, p.Accent, p.Background, p.UsageCount)
	}
	return sb.String()
}

func layoutFileName(l entity.Layout) string {
	return fmt.Sprintf("poster_%dx%d.html", l.Format.Width, l.Format.Height)
}
