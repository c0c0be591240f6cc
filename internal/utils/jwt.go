package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// TokenIssuer 簽發並驗證玩家身分的 JWT
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken 生成一個新的 JWT token
func (t *TokenIssuer) GenerateToken(username string) (string, error) {
	nowTime := t.now()
	expireTime := nowTime.Add(t.ttl)

	claims := Claims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   username,
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(t.secret)
}

// ParseToken 解析和驗證 JWT token
func (t *TokenIssuer) ParseToken(token string) (*Claims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})

	if tokenClaims != nil {
		if claims, ok := tokenClaims.Claims.(*Claims); ok && tokenClaims.Valid && claims.Username != "" {
			return claims, nil
		}
	}
	if err == nil {
		err = errors.New("invalid token")
	}
	return nil, err
}
