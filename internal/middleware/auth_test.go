package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/apperr"
	"debate_arena/internal/utils"
)

func newAuthRouter(tokens *utils.TokenIssuer, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), AuthMiddleware(tokens, required))
	r.GET("/act/:player", func(c *gin.Context) {
		if err := CheckActor(c, c.Param("player")); err != nil {
			c.JSON(apperr.GetCode(err).HTTPStatus(), gin.H{"code": apperr.GetCode(err)})
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	token, _ := tokens.GenerateToken("alice")

	cases := []struct {
		name     string
		required bool
		path     string
		header   string
		want     int
	}{
		{"optional without token", false, "/act/alice", "", http.StatusNoContent},
		{"required without token", true, "/act/alice", "", http.StatusUnauthorized},
		{"matching token", true, "/act/alice", "Bearer " + token, http.StatusNoContent},
		{"other player", false, "/act/bob", "Bearer " + token, http.StatusForbidden},
		{"bad format", false, "/act/alice", token, http.StatusUnauthorized},
		{"bad token", false, "/act/alice", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(tokens, tc.required)
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
			if w.Header().Get(RequestIDHeader) == "" {
				t.Fatal("expected a request id header")
			}
		})
	}
}
