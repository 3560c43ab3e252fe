package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/drillbot/internal/database"
	"github.com/example/drillbot/internal/session"
)

// handleStart greets the learner and shows the main actions
func (b *Bot) handleStart(msg *tgbotapi.Message) {
	text := `👋 Привет! Я бот для заучивания словарных слов.

Выбери словарь командой /dicts и отвечай, пока все слова не будут выучены на отлично.

Команды:
/dicts — выбрать словарь
/progress — твоя статистика
/pause — приостановить сессию
/resume — продолжить сохранённую сессию
/stop — завершить сессию досрочно`
	b.send(msg.Chat.ID, text)
}

// handleDictionaries lists stored word pools as inline buttons
func (b *Bot) handleDictionaries(msg *tgbotapi.Message) {
	dicts, err := b.dictRepo.GetAll()
	if err != nil {
		log.Printf("Error listing dictionaries: %v", err)
		b.send(msg.Chat.ID, "❌ Не удалось загрузить словари, попробуй ещё раз")
		return
	}
	if len(dicts) == 0 {
		b.send(msg.Chat.ID, "Словарей пока нет. Импортируй список слов и попробуй снова.")
		return
	}

	var rows [][]MenuButton
	for _, d := range dicts {
		label := fmt.Sprintf("%s (%d слов)", d.Name, len(d.Words))
		rows = append(rows, []MenuButton{{Text: label, CallbackData: "learn:" + d.ID}})
	}

	b.sendWithKeyboard(msg.Chat.ID, "📚 Выбери словарь для занятия:", createKeyboard(rows))
}

// handleStartLearning creates a session over the chosen dictionary
func (b *Bot) handleStartLearning(chatID, userID int64, dictID string) {
	dict, err := b.dictRepo.GetByID(dictID)
	if err != nil {
		if errors.Is(err, database.ErrDictionaryNotFound) {
			b.send(chatID, "❌ Словарь не найден")
			return
		}
		log.Printf("Error loading dictionary %s: %v", dictID, err)
		b.send(chatID, "❌ Не удалось загрузить словарь")
		return
	}

	words := dict.Words
	if len(words) > b.config.MaxWordsPerSession {
		words = words[:b.config.MaxWordsPerSession]
	}

	s, err := b.manager.Start(userID, dict.ID, dict.Name, words)
	if err != nil {
		if errors.Is(err, session.ErrSessionExists) {
			b.send(chatID, "У тебя уже идёт занятие. Сначала /pause или /stop.")
			return
		}
		log.Printf("Error starting session for user %d: %v", userID, err)
		b.send(chatID, "❌ Не удалось начать занятие")
		return
	}

	b.send(chatID, fmt.Sprintf("🚀 Начинаем! Словарь: *%s*, слов: %d", dict.Name, len(s.Words)))
	b.askNextWord(chatID, userID)
}

// askNextWord surfaces the next word or wraps the session up when done
func (b *Bot) askNextWord(chatID, userID int64) {
	s, ok := b.manager.Live(userID)
	if !ok {
		b.send(chatID, "Нет активного занятия. Начни с /dicts.")
		return
	}

	next := s.NextWord()
	if next == "" {
		b.finishSession(chatID, userID)
		return
	}

	keyboard := createKeyboard([][]MenuButton{
		{
			{Text: "✅ Помню", CallbackData: "answer:correct"},
			{Text: "❌ Не помню", CallbackData: "answer:incorrect"},
		},
		{
			{Text: "⏸ Пауза", CallbackData: "pause"},
			{Text: "🏁 Завершить", CallbackData: "stop"},
		},
	})

	word := s.GetWord(next)
	text := fmt.Sprintf("❓ Вопрос %d\n\nСлово: *%s*\n(попыток: %d)", s.TotalShown, next, word.TotalAttempts)
	b.sendWithKeyboard(chatID, text, keyboard)
}

// handleAnswer records one answer and moves the drill forward
func (b *Bot) handleAnswer(chatID, userID int64, verdict string) {
	s, ok := b.manager.Live(userID)
	if !ok {
		b.send(chatID, "Нет активного занятия. Начни с /dicts.")
		return
	}

	correct := verdict == "correct"
	current := s.CurrentWord

	if err := s.RecordAnswer(current, correct); err != nil {
		if errors.Is(err, session.ErrUnknownWord) {
			// Устаревшее нажатие: слово уже не текущее
			b.askNextWord(chatID, userID)
			return
		}
		log.Printf("Error recording answer for user %d: %v", userID, err)
		return
	}

	// Долгосрочная статистика обновляется на каждый ответ
	if err := b.tracker.RecordAnswer(userID, s.DictID, current, correct); err != nil {
		log.Printf("Error updating long-term progress for user %d: %v", userID, err)
	}

	totalAnswers := s.Stats.CorrectAnswers + s.Stats.IncorrectAnswers
	if totalAnswers > 0 && totalAnswers%b.config.ProgressUpdateInterval == 0 {
		b.send(chatID, b.progressText(s))
	}

	b.askNextWord(chatID, userID)
}

// progressText renders the intermediate session progress
func (b *Bot) progressText(s *session.Session) string {
	p := s.Progress()
	bar := strings.Repeat("█", p.Mastered) + strings.Repeat("░", p.Remaining)

	return fmt.Sprintf(`📊 *Промежуточный прогресс*

[%s]
• Выучено: %d/%d
• Слов с ошибками: %d
• Без ошибок: %d
• Успешность: %.1f%%`,
		bar, p.Mastered, p.Total, p.WithErrors, p.WithoutErrors, s.Stats.SuccessRate())
}

// finishSession finalizes the live session and folds it into long-term
// progress
func (b *Bot) finishSession(chatID, userID int64) {
	stats, err := b.manager.Finish(userID)
	if err != nil {
		if errors.Is(err, session.ErrNoLiveSession) {
			b.send(chatID, "Нет активного занятия.")
			return
		}
		log.Printf("Error finishing session for user %d: %v", userID, err)
		b.send(chatID, "❌ Не удалось завершить занятие")
		return
	}

	if err := b.tracker.RecordSession(stats); err != nil {
		log.Printf("Error recording session stats for user %d: %v", userID, err)
	}

	text := fmt.Sprintf(`🎉 *Занятие завершено!*

• Словарь: %s
• Выучено на 5: %d/%d
• Правильно: %d
• Неправильно: %d
• Успешность: %.1f%%
• Время: %d сек`,
		stats.DictName, stats.WordsMastered, stats.TotalWords,
		stats.CorrectAnswers, stats.IncorrectAnswers,
		stats.SuccessRate(), stats.DurationSeconds())
	b.send(chatID, text)
}

// handlePause persists the live session and drops it from memory
func (b *Bot) handlePause(chatID, userID int64) {
	s, ok := b.manager.Live(userID)
	if !ok {
		b.send(chatID, "Нет активного занятия.")
		return
	}

	if err := b.manager.Pause(userID); err != nil {
		// Сессия остаётся живой — прогресс не потерян
		log.Printf("Error pausing session for user %d: %v", userID, err)
		b.send(chatID, "❌ Не удалось сохранить занятие, оно остаётся активным")
		return
	}

	b.send(chatID, fmt.Sprintf("⏸ Занятие сохранено. Выучено %d/%d. Продолжить: /resume",
		s.Progress().Mastered, len(s.Words)))
}

// handleResumeList shows the learner's saved sessions
func (b *Bot) handleResumeList(msg *tgbotapi.Message) {
	sessions, err := b.manager.ListSaved(msg.From.ID)
	if err != nil {
		log.Printf("Error listing saved sessions for user %d: %v", msg.From.ID, err)
		b.send(msg.Chat.ID, "❌ Не удалось загрузить сохранённые занятия")
		return
	}
	if len(sessions) == 0 {
		b.send(msg.Chat.ID, "Сохранённых занятий нет. Начни новое: /dicts")
		return
	}

	var rows [][]MenuButton
	for id, s := range sessions {
		label := fmt.Sprintf("%s — %d/%d выучено", s.DictName, s.Progress().Mastered, len(s.Words))
		rows = append(rows, []MenuButton{{Text: label, CallbackData: "resume_session:" + id}})
	}

	b.sendWithKeyboard(msg.Chat.ID, "▶️ Выбери занятие для продолжения:", createKeyboard(rows))
}

// handleResume restores a paused session
func (b *Bot) handleResume(chatID, userID int64, sessionID string) {
	s, err := b.manager.Resume(userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrResumeTimeout):
			b.send(chatID, "⏳ Занятие сейчас восстанавливается, попробуй ещё раз")
		case errors.Is(err, session.ErrSessionNotFound):
			b.send(chatID, "❌ Сохранённое занятие не найдено. Начни новое: /dicts")
		case errors.Is(err, session.ErrSessionExists):
			b.send(chatID, "У тебя уже идёт другое занятие. Сначала /pause или /stop.")
		default:
			log.Printf("Error resuming session %s for user %d: %v", sessionID, userID, err)
			b.send(chatID, "❌ Не удалось восстановить занятие")
		}
		return
	}

	b.send(chatID, fmt.Sprintf("▶️ Продолжаем! Выучено %d/%d.", s.Progress().Mastered, len(s.Words)))
	b.askNextWord(chatID, userID)
}

// handleStop ends the live session early
func (b *Bot) handleStop(chatID, userID int64) {
	b.finishSession(chatID, userID)
}

// handleProgress shows the learner's all-time statistics
func (b *Bot) handleProgress(msg *tgbotapi.Message) {
	total, err := b.tracker.TotalProgress(msg.From.ID)
	if err != nil {
		log.Printf("Error loading progress for user %d: %v", msg.From.ID, err)
		b.send(msg.Chat.ID, "❌ Не удалось загрузить прогресс")
		return
	}

	text := fmt.Sprintf(`📊 *Твой прогресс*

• Пройдено сессий: %d
• Слов выучено на 5: %d
• Всего попыток: %d
• Правильных: %d
• Успешность: %.1f%%`,
		total.TotalSessions, total.TotalWordsLearned,
		total.TotalAttempts, total.TotalCorrect, total.SuccessRate)
	b.send(msg.Chat.ID, text)
}
