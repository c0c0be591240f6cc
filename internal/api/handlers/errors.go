package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"debate_arena/internal/apperr"
)

// writeError 將錯誤轉成 {"error", "code"} 回應
func writeError(c *gin.Context, err error) {
	code := apperr.GetCode(err)
	status := code.HTTPStatus()
	if status >= 500 {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	_ = c.Error(err)

	body := gin.H{
		"error": apperr.Message(err),
		"code":  code,
	}
	var e *apperr.Error
	if errors.As(err, &e) && len(e.Metadata) > 0 {
		body["details"] = e.Metadata
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	writeError(c, apperr.Wrap(apperr.CodeInvalidRequest, err))
}
