package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"muniplan/internal/realtime"
)

type BoardHandler struct {
	hub *realtime.BoardHub
}

func NewBoardHandler(hub *realtime.BoardHub) *BoardHandler {
	return &BoardHandler{hub: hub}
}

// GET /ws/projects/:id
// Upgrades to a websocket subscription on the project's board.
func (h *BoardHandler) Subscribe(c *gin.Context) {
	projectID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.hub.Subscribe(c.Writer, c.Request, projectID)
	if err != nil {
		log.Printf("[ws][subscribe][err] projectID=%d: %v", projectID, err)
		return
	}
	log.Printf("[ws][subscribe][ok] projectID=%d client=%s", projectID, client.ID)
}
