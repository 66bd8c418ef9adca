package credits

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	credits := r.Group("/credits/me")
	{
		credits.GET("", h.GetMyBalance)
		credits.GET("/transactions", h.ListMyTransactions)
	}
}
