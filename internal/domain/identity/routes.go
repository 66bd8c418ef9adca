package identity

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers signup and login.
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
	}
}

// RegisterProtectedRoutes expects r to already carry JWT auth.
func RegisterProtectedRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/auth/me", handler.Me)
}
