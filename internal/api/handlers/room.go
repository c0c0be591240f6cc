package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"debate_arena/internal/middleware"
	"debate_arena/internal/service"
)

const qrSize = 320

// roomKeyPlaceholder 在加入連結中代表房間代碼
const roomKeyPlaceholder = "{room_key}"

// RoomHandler 處理與辯論房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
	joinURL     string
}

// NewRoomHandler 創建一個新的 RoomHandler 實例，joinURL 用於產生分享用 QR code
func NewRoomHandler(roomService *service.RoomService, joinURL string) *RoomHandler {
	return &RoomHandler{roomService: roomService, joinURL: strings.TrimSpace(joinURL)}
}

// CreateRoom 處理創建新房間的請求，題目由 topic 查詢參數提供
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	creator := c.Param("player_name")
	if err := middleware.CheckActor(c, creator); err != nil {
		writeError(c, err)
		return
	}

	snap, err := h.roomService.CreateRoom(c.Request.Context(), creator, c.Query("topic"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_key": snap.RoomKey, "topic": snap.Topic})
}

// JoinRoomInput 定義加入房間請求的結構
type JoinRoomInput struct {
	PlayerName string `json:"player_name" binding:"required"`
}

// JoinRoom 處理加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input JoinRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if err := middleware.CheckActor(c, input.PlayerName); err != nil {
		writeError(c, err)
		return
	}

	snap, err := h.roomService.JoinRoom(c.Request.Context(), c.Param("room_key"), input.PlayerName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined successfully", "room": snap})
}

// ArgumentInput 定義提交論點請求的結構，空白論點交由服務層判斷
type ArgumentInput struct {
	Argument string `json:"argument"`
}

// SubmitArgument 處理提交論點的請求
func (h *RoomHandler) SubmitArgument(c *gin.Context) {
	var input ArgumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	player := c.Param("player_name")
	if err := middleware.CheckActor(c, player); err != nil {
		writeError(c, err)
		return
	}

	res, err := h.roomService.SubmitArgument(c.Request.Context(), c.Param("room_key"), player, input.Argument)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// AbortDebate 處理中止辯論的請求
func (h *RoomHandler) AbortDebate(c *gin.Context) {
	player := c.Param("player_name")
	if err := middleware.CheckActor(c, player); err != nil {
		writeError(c, err)
		return
	}

	res, err := h.roomService.AbortDebate(c.Request.Context(), c.Param("room_key"), player)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// RoomStatus 回傳房間快照與依提交順序排列的所有論點
func (h *RoomHandler) RoomStatus(c *gin.Context) {
	view, err := h.roomService.RoomStatus(c.Param("room_key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// QRCode 產生房間的 PNG QR code，方便把房間分享給對手
func (h *RoomHandler) QRCode(c *gin.Context) {
	view, err := h.roomService.RoomStatus(c.Param("room_key"))
	if err != nil {
		writeError(c, err)
		return
	}

	png, err := qrcode.Encode(QRContent(h.joinURL, view.Room.RoomKey), qrcode.Medium, qrSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// QRContent 回傳 QR code 的內容。
// 沒有設定加入連結時只編碼房間代碼；連結中有 {room_key} 時替換它，否則把代碼接在路徑後面。
func QRContent(joinURL, key string) string {
	if joinURL == "" {
		return key
	}
	if strings.Contains(joinURL, roomKeyPlaceholder) {
		return strings.ReplaceAll(joinURL, roomKeyPlaceholder, url.PathEscape(key))
	}
	return strings.TrimSuffix(joinURL, "/") + "/" + url.PathEscape(key)
}
