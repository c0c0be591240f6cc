package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/service"
)

type TopicHandler struct {
	topicService *service.TopicService
}

func NewTopicHandler(topicService *service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

func (h *TopicHandler) Genres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"genres": h.topicService.Genres()})
}

// Topics 為指定類別產生三個辯論題目
func (h *TopicHandler) Topics(c *gin.Context) {
	topics, err := h.topicService.Topics(c.Request.Context(), c.Param("genre"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
