package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/policy"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// ContextActorKey is where the authenticated user lands in the gin context.
const ContextActorKey = "actor"

// Authenticate parses a bearer token when one is present and loads the user
// row behind it, so role edits take effect on the next request. Requests
// without a token continue anonymously; the policy middlewares below decide
// whether that is acceptable per route.
func Authenticate(authService service.AuthService, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		user, err := userService.GetByID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		c.Set(ContextActorKey, user)
		c.Next()
	}
}

// Actor returns the authenticated user, or nil for anonymous requests.
func Actor(c *gin.Context) *models.User {
	v, exists := c.Get(ContextActorKey)
	if !exists {
		return nil
	}
	actor, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return actor
}

// reject answers 401 for anonymous callers and 403 for authenticated ones.
func reject(c *gin.Context, actor *models.User) {
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	} else {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
	c.Abort()
}

// RequireAdminOrReadOnly gates the catalog surface: safe methods pass,
// writes need an admin.
func RequireAdminOrReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if !policy.AdminOrReadOnly(actor, c.Request.Method) {
			reject(c, actor)
			return
		}
		c.Next()
	}
}

// RequireAuthorOrElevated is the coarse half of the review/comment policy;
// the per-object half runs in the services once the row is loaded.
func RequireAuthorOrElevated() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if !policy.AuthorOrElevated(actor, c.Request.Method) {
			reject(c, actor)
			return
		}
		c.Next()
	}
}

// RequireAdminOnly gates the user-management surface, reads included.
func RequireAdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if !policy.AdminOnly(actor) {
			reject(c, actor)
			return
		}
		c.Next()
	}
}

// RequireAuthenticated is the /users/me carve-out: any signed-in user.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Actor(c) == nil {
			reject(c, nil)
			return
		}
		c.Next()
	}
}
