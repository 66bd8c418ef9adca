package verification

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to carry JWT auth.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	v := r.Group("/verification")
	{
		v.POST("/requests", handler.SubmitRequest)
		v.GET("/me", handler.GetMyStatus)
	}
}

// RegisterAdminRoutes expects r to carry JWT auth and AdminOnly.
func RegisterAdminRoutes(r *gin.RouterGroup, handler *Handler) {
	v := r.Group("/verification")
	{
		v.GET("/requests", handler.ListRequests)
		v.POST("/requests/:id/resolve", handler.ResolveRequest)
		v.PUT("/users/:userId", handler.SetVerification)
	}
}
