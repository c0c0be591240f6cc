package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/api/handlers"
	"debate_arena/internal/middleware"
	"debate_arena/internal/service"
	"debate_arena/internal/utils"
)

// Options 是路由層需要的設定
type Options struct {
	Tokens       *utils.TokenIssuer
	AuthRequired bool
	JoinURL      string
}

func SetupRoutes(r *gin.Engine, services *service.Services, opts Options) {
	playerHandler := handlers.NewPlayerHandler(services.Player)
	roomHandler := handlers.NewRoomHandler(services.Room, opts.JoinURL)
	topicHandler := handlers.NewTopicHandler(services.Topic)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found", "code": "NOT_FOUND"})
	})

	// 公開路由
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Debate API is running"})
	}
	r.GET("/", health)
	r.GET("/health", health)

	r.POST("/players/create", playerHandler.Create)
	r.POST("/players/login", playerHandler.Login)
	r.GET("/players/:username", playerHandler.Get)
	r.GET("/player/history/:username", playerHandler.History)

	r.GET("/genres", topicHandler.Genres)
	r.GET("/topics/:genre", topicHandler.Topics)

	r.GET("/room-status/:room_key", roomHandler.RoomStatus)
	r.GET("/rooms/:room_key/qr", roomHandler.QRCode)

	// 會改變房間狀態的路由，帶有 token 時必須與行動的玩家一致
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware(opts.Tokens, opts.AuthRequired))
	{
		authorized.POST("/create-room/:player_name", roomHandler.CreateRoom)
		authorized.POST("/create-custom-room/:player_name", roomHandler.CreateRoom)
		authorized.POST("/join-room/:room_key", roomHandler.JoinRoom)
		authorized.POST("/submit-argument/:room_key/:player_name", roomHandler.SubmitArgument)
		authorized.POST("/abort-debate/:room_key/:player_name", roomHandler.AbortDebate)
	}
}

// NewEngine 建立套用共用中間件的 gin 引擎
func NewEngine(services *service.Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	SetupRoutes(r, services, opts)
	return r
}
