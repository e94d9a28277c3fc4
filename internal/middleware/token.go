package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	_ "github.com/trungtung03/sicbo-test/pkg/config"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

const (
	TokenAccess  = "TokenAccess"
	TokenRefresh = "TokenRefresh"
)

var jwtKey string

func init() {
	var ok bool
	jwtKey, ok = os.LookupEnv("JWT_KEY")
	if !ok {
		logger.Fatal("unable to get JWT key from environment")
	}
}

// JWTKey returns the signing key loaded from the environment.
func JWTKey() string {
	return jwtKey
}

type tokenClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenNew issues a signed token for the user, expiring at the unix time.
func TokenNew(key string, userID int64, expiresAt int64, tokenType string) (string, error) {
	claims := tokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	if err != nil {
		return "", logger.WrapError(err, "")
	}

	return signed, nil
}

// TokenCheck validates the token signature and expiry and returns the user
// id and token type carried in it.
func TokenCheck(tokenString, key string) (int64, string, error) {
	var claims tokenClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(key), nil
	})
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", errors.New("token is not valid")
	}

	return claims.UserID, claims.TokenType, nil
}

// GetTokenFromAuthorizationHeader extracts the bearer token. Websocket
// upgrade requests carry it in the access_token query parameter instead.
func GetTokenFromAuthorizationHeader(c *gin.Context) (string, error) {
	if c.IsWebsocket() {
		if token := c.Query("access_token"); token != "" {
			return token, nil
		}
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing Authorization header")
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", errors.New("malformed Authorization header")
	}

	return token, nil
}

// HashPassword returns the stored form of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// ComparePasswords checks a submitted password against the stored hash.
func ComparePasswords(stored, submitted string) bool {
	hashed := HashPassword(submitted)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashed)) == 1
}
