package handlers

import (
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"

	"muniplan/internal/services"
)

type IntegrationsHandler struct {
	tg *services.TelegramService
}

func NewIntegrationsHandler(tg *services.TelegramService) *IntegrationsHandler {
	return &IntegrationsHandler{tg: tg}
}

// POST /integrations/telegram/webhook
// Receives bot updates from Telegram. Always answers 200 so Telegram
// does not retry on our internal errors.
func (h *IntegrationsHandler) TelegramWebhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Printf("[tg][webhook][err] bad update payload: %v", err)
		c.Status(http.StatusOK)
		return
	}
	h.tg.HandleUpdate(c.Request.Context(), update)
	c.Status(http.StatusOK)
}

// POST /integrations/telegram/request-link
// Hands the authenticated user a one-time code to send the bot as
// "/start <code>".
func (h *IntegrationsHandler) RequestTelegramLink(c *gin.Context) {
	if h.tg == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "telegram integration is disabled"})
		return
	}
	userID, _ := getUserAndRole(c)
	code := h.tg.NewLinkCode(userID)
	c.JSON(http.StatusOK, gin.H{"code": code, "instructions": "Send /start " + code + " to the bot within 15 minutes"})
}
