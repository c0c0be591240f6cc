package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/apperr"
	"debate_arena/internal/utils"
)

const identityKey = "identity"

// AuthMiddleware 驗證 Authorization 標頭中的 JWT token
// required 為 false 時允許沒有 token 的請求，但帶了 token 就必須有效
func AuthMiddleware(tokens *utils.TokenIssuer, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				abortWithError(c, apperr.Newf(apperr.CodeUnauthorized, "Authorization header is required"))
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			abortWithError(c, apperr.Newf(apperr.CodeUnauthorized, "Authorization header format must be Bearer {token}"))
			return
		}

		claims, err := tokens.ParseToken(parts[1])
		if err != nil {
			abortWithError(c, apperr.Wrap(apperr.CodeUnauthorized, err))
			return
		}

		c.Set(identityKey, claims.Username)
		c.Next()
	}
}

// Identity 回傳 token 中的玩家名稱
func Identity(c *gin.Context) (string, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// CheckActor 確認路徑中的玩家與 token 身分一致，沒有 token 時不檢查
func CheckActor(c *gin.Context, actor string) error {
	name, ok := Identity(c)
	if !ok || name == actor {
		return nil
	}
	return apperr.New(apperr.CodeIdentityMismatch).WithMetadata("token_player", name)
}

func abortWithError(c *gin.Context, err error) {
	code := apperr.GetCode(err)
	c.AbortWithStatusJSON(code.HTTPStatus(), gin.H{
		"error": apperr.Message(err),
		"code":  code,
	})
}
