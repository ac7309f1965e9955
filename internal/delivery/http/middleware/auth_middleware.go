package middleware

import (
	"net/http"
	"strings"

	"veridia-hiring-backend/internal/delivery/http/response"
	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"
	"veridia-hiring-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and loads the user behind it.
// The role always comes fresh from the database, never from the token claim,
// so a role change takes effect on the next request.
func AuthMiddleware(tokens *token.Service, userRepo domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if authHeader == "" || tokenString == authHeader {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		user, err := userRepo.GetByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), user.Role)

		c.Next()
	}
}

// RequireAdmin rejects requests from anyone without the admin role.
// Runs after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserRole)) != domain.RoleAdmin {
			c.Error(apperror.Forbidden("Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
