package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"muniplan/internal/models"
	"muniplan/internal/repositories"
)

const linkCodeTTL = 15 * time.Minute

// TelegramService pushes task notifications to assignees who linked a
// Telegram chat. Linking: the portal hands out a one-time code, the
// user sends "/start <code>" to the bot, the webhook ties the chat id
// to the account. Safe to use as a nil receiver when the bot is off.
type TelegramService struct {
	bot   *tgbotapi.BotAPI
	users repositories.UserRepository

	mu      sync.Mutex
	pending map[string]linkRequest
}

type linkRequest struct {
	userID  int64
	expires time.Time
}

func NewTelegramService(botToken string, users repositories.UserRepository) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.Printf("[tg] bot authorized as @%s", bot.Self.UserName)
	return &TelegramService{
		bot:     bot,
		users:   users,
		pending: make(map[string]linkRequest),
	}, nil
}

// NewLinkCode issues a one-time code tying the next "/start <code>" to
// the given user.
func (t *TelegramService) NewLinkCode(userID int64) string {
	code := uuid.NewString()
	t.mu.Lock()
	t.pending[code] = linkRequest{userID: userID, expires: time.Now().Add(linkCodeTTL)}
	t.mu.Unlock()
	return code
}

func (t *TelegramService) consumeLinkCode(code string) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.pending[code]
	if !ok || time.Now().After(req.expires) {
		delete(t.pending, code)
		return 0, false
	}
	delete(t.pending, code)
	return req.userID, true
}

// HandleUpdate processes a webhook update. Only the link handshake is
// understood; everything else gets a short hint.
func (t *TelegramService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if t == nil || update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if code, found := strings.CutPrefix(text, "/start "); found {
		userID, ok := t.consumeLinkCode(strings.TrimSpace(code))
		if !ok {
			t.reply(chatID, "Link code is invalid or expired. Request a new one from the portal.")
			return
		}
		if err := t.users.SetTelegramChatID(ctx, userID, chatID); err != nil {
			log.Printf("[tg][link][err] userID=%d chatID=%d: %v", userID, chatID, err)
			t.reply(chatID, "Could not link your account, please try again.")
			return
		}
		log.Printf("[tg][link][ok] userID=%d chatID=%d", userID, chatID)
		t.reply(chatID, "Account linked. You will receive task notifications here.")
		return
	}

	// anything else: tell the sender where they stand
	if user, err := t.users.FindByTelegramChat(ctx, chatID); err == nil {
		t.reply(chatID, fmt.Sprintf("This chat is linked to %s. Task notifications arrive here automatically.", user.Name))
		return
	}
	t.reply(chatID, "Use /start <code> from the portal to link your account.")
}

// NotifyTaskAssigned sends an assignment notice to a linked chat.
func (t *TelegramService) NotifyTaskAssigned(chatID int64, task *models.Task) error {
	text := fmt.Sprintf("<b>New task:</b> %s\n%s to %s, priority %s",
		task.Title,
		models.FormatDate(task.StartDate), models.FormatDate(task.DueDate),
		task.Priority)
	return t.send(chatID, text)
}

// NotifyTaskStatus sends a board-move notice to a linked chat.
func (t *TelegramService) NotifyTaskStatus(chatID int64, task *models.Task) error {
	return t.send(chatID, fmt.Sprintf("Task <b>%s</b> moved to <b>%s</b>", task.Title, task.Status))
}

func (t *TelegramService) reply(chatID int64, text string) {
	if err := t.send(chatID, text); err != nil {
		log.Printf("[tg][reply][err] chatID=%d: %v", chatID, err)
	}
}

func (t *TelegramService) send(chatID int64, text string) error {
	if t == nil || t.bot == nil || chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
