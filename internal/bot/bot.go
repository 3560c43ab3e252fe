package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/drillbot/internal/database"
	"github.com/example/drillbot/internal/progress"
	"github.com/example/drillbot/internal/session"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot is the Telegram front-end over the drill engine. It holds no learning
// logic: it translates messages into session manager and tracker calls and
// renders their plain data back to the learner.
type Bot struct {
	api      *tgbotapi.BotAPI
	manager  *session.Manager
	tracker  *progress.Tracker
	dictRepo *database.DictionaryRepository
	config   *BotConfig
}

// New creates a new bot instance
func New(token string, manager *session.Manager, tracker *progress.Tracker) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}

	return &Bot{
		api:      api,
		manager:  manager,
		tracker:  tracker,
		dictRepo: database.NewDictionaryRepository(),
		config:   DefaultConfig(),
	}, nil
}

// Start runs the update loop until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("Bot authorized as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// Stop shuts down the update channel
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// handleUpdate dispatches one incoming update
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in update handler: %v", r)
		}
	}()

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

// handleCommand dispatches a slash command
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "dicts":
		b.handleDictionaries(msg)
	case "progress":
		b.handleProgress(msg)
	case "pause":
		b.handlePause(msg.Chat.ID, msg.From.ID)
	case "resume":
		b.handleResumeList(msg)
	case "stop":
		b.handleStop(msg.Chat.ID, msg.From.ID)
	default:
		b.send(msg.Chat.ID, "Неизвестная команда. Доступно: /start, /dicts, /progress, /pause, /resume, /stop")
	}
}

// handleCallback dispatches an inline keyboard press
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	// Убираем "часики" на кнопке
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	chatID := query.Message.Chat.ID
	userID := query.From.ID
	data := query.Data

	switch {
	case strings.HasPrefix(data, "learn:"):
		b.handleStartLearning(chatID, userID, strings.TrimPrefix(data, "learn:"))
	case strings.HasPrefix(data, "answer:"):
		b.handleAnswer(chatID, userID, strings.TrimPrefix(data, "answer:"))
	case strings.HasPrefix(data, "resume_session:"):
		b.handleResume(chatID, userID, strings.TrimPrefix(data, "resume_session:"))
	case data == "pause":
		b.handlePause(chatID, userID)
	case data == "stop":
		b.handleStop(chatID, userID)
	}
}

// send delivers a plain Markdown message, logging delivery errors
func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

// sendWithKeyboard delivers a message with an inline keyboard
func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}
