package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/service"
)

// PlayerHandler 處理玩家建立、登入與戰績查詢
type PlayerHandler struct {
	playerService *service.PlayerService
}

func NewPlayerHandler(playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// PlayerInput 定義建立與登入請求的結構
type PlayerInput struct {
	PlayerName string `json:"player_name" binding:"required"`
	Password   string `json:"password"`
}

// Create 處理玩家建立
func (h *PlayerHandler) Create(c *gin.Context) {
	var input PlayerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	player, token, err := h.playerService.Create(c.Request.Context(), input.PlayerName, input.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Player %s created successfully", player.Username),
		"player":  player,
		"token":   token,
	})
}

// Login 處理玩家登入
func (h *PlayerHandler) Login(c *gin.Context) {
	var input PlayerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.playerService.Login(c.Request.Context(), input.PlayerName, input.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *PlayerHandler) Get(c *gin.Context) {
	player, err := h.playerService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// History 回傳玩家排名與歷史辯論
func (h *PlayerHandler) History(c *gin.Context) {
	history, err := h.playerService.History(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
