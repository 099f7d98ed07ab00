package jwt

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var expirationTime = 7 * 24 * time.Hour

var jwtKey = []byte(secretFromEnv())

// secretFromEnv reads the signing key from JWT_SECRET, with a development
// fallback.
func secretFromEnv() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "billbuddy-dev-secret"
}

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// CreateCookie creates a cookie containing a JWT token that is set to
// expire in expirationTime.
func CreateCookie(userID string, cookieName string) http.Cookie {
	expiresAt := time.Now().Add(expirationTime)

	claims := &claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey)
	if err != nil {
		panic(err)
	}

	return http.Cookie{
		Name:     cookieName,
		Value:    tokenString,
		Expires:  expiresAt,
		HttpOnly: true,
	}
}

// VerifyToken verifies a JWT token. If successful, the function returns
// (userID, true), if unsuccessful, it returns ("", false)
func VerifyToken(tokenString string) (string, bool) {
	parsed := &claims{}

	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		slog.Debug("Bad jwt token", "error", err)
		return "", false
	}

	if !token.Valid {
		slog.Debug("Invalid jwt token")
		return "", false
	}

	return parsed.UserID, true
}
