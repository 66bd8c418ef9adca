package credits

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photomarket/internal/middleware"
	"photomarket/internal/pkg/response"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// GetMyBalance handles GET /api/v1/credits/me
// @Summary Current Connects balance
// @Tags Credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /credits/me [get]
func (h *Handler) GetMyBalance(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), userID)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to get balance")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

// ListMyTransactions handles GET /api/v1/credits/me/transactions
func (h *Handler) ListMyTransactions(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	txns, err := h.ledger.Transactions(c.Request.Context(), userID)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list transactions")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}
