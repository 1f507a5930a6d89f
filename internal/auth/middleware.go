package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// Middleware validates the bearer token and stores the user ID in the
// request context for the tracked-opportunity handlers.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := bearerToken(c.Request().Header.Get("Authorization"))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing or malformed Authorization header")
		}

		secretKey, err := jwtSecretFromEnv()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Server auth configuration error")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secretKey, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
		}
		sub, err := claims.GetSubject()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user ID in token")
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		token := strings.TrimSpace(header[7:])
		return token, token != ""
	}
	return "", false
}

// GetUserIDFromContext retrieves the authenticated user ID set by Middleware.
func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return id, nil
}
