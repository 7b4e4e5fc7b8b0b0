package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cracker/config"
	"cracker/database"
	"cracker/models"
	"cracker/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userContextKey = "user"

// AuthMiddleware validates the bearer token minted by the external auth
// provider and resolves the local player profile. The profile row is created
// on first sight inside one create-or-fetch call, so no request ever has to
// poll for it to appear.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "No token provided")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(config.AuthSecret), nil
		})
		if err != nil || !token.Valid {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			response.Error(c, http.StatusUnauthorized, "Token has no subject")
			c.Abort()
			return
		}
		nickname, _ := claims["nickname"].(string)
		if nickname == "" {
			nickname = "anonymous"
		}

		var user models.User
		if err := database.DB.
			Where(models.User{ID: sub}).
			Attrs(models.User{Nickname: nickname, PointsUpdatedAt: time.Now().UTC()}).
			FirstOrCreate(&user).Error; err != nil {
			response.Error(c, http.StatusServiceUnavailable, "Failed to load user profile")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// GetUserFromRequest returns the authenticated user resolved by
// AuthMiddleware, responding 401 itself when there is none
func GetUserFromRequest(c *gin.Context) (models.User, error) {
	v, exists := c.Get(userContextKey)
	if !exists {
		response.Error(c, http.StatusUnauthorized, "Authentication required")
		return models.User{}, errors.New("no authenticated user in context")
	}
	user, ok := v.(models.User)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required")
		return models.User{}, errors.New("invalid user in context")
	}
	return user, nil
}

// SetUserForTest injects a user into the request context, standing in for
// AuthMiddleware in handler tests
func SetUserForTest(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}

// ServiceTokenMiddleware guards collaborator-only routes such as block
// generation. Not reachable by ordinary users.
func ServiceTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.ServiceToken == "" || c.GetHeader("X-Service-Token") != config.ServiceToken {
			response.Error(c, http.StatusUnauthorized, "Invalid service token")
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}
