package delivery

import (
	"net/http"
	"strings"

	authdomain "crmsync-backend/internal/auth/domain"
	"crmsync-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the caller on the
// request context
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		user, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// MembershipMiddleware resolves the caller's organization membership. Runs
// after AuthMiddleware.
func MembershipMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		member, err := authUsecase.Membership(user)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("member", member)
		c.Set("organizationID", member.OrganizationID)
		c.Next()
	}
}

// RequireOwner rejects callers whose membership role is not OWNER. Runs
// after MembershipMiddleware.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		member := CurrentMember(c)
		if member == nil || member.Role != authdomain.RoleOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "owner role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthMiddleware
func CurrentUser(c *gin.Context) *authdomain.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*authdomain.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentMember returns the membership stored by MembershipMiddleware
func CurrentMember(c *gin.Context) *authdomain.OrganizationMember {
	value, exists := c.Get("member")
	if !exists {
		return nil
	}
	member, ok := value.(*authdomain.OrganizationMember)
	if !ok {
		return nil
	}
	return member
}
