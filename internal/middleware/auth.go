package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"auctionhub/api/internal/apperrors"
)

// UserIDKey is where Auth stores the authenticated user id on the context.
const UserIDKey = "user_id"

// AccessTokenValidator is implemented by the token service.
type AccessTokenValidator interface {
	ValidateAccessToken(tokenStr string) (string, error)
}

// Auth requires a bearer access token and resolves it to a user id.
// Expiry is reported distinctly so clients know to refresh.
func Auth(tokens AccessTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			err := apperrors.ErrInvalidToken
			c.AbortWithStatusJSON(err.Status, gin.H{"error": "missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := tokens.ValidateAccessToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(apperrors.Status(err), gin.H{"error": apperrors.Message(err)})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by Auth.
func CurrentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}
