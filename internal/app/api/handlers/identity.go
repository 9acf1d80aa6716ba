package handlers

import "github.com/gin-gonic/gin"

// currentUserID returns the authenticated user id attached by the auth
// middleware, or "" on unauthenticated routes.
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
