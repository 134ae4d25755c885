package handlers

import (
	"net/http"

	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) GetTransactions(c *gin.Context) {
	transactions, err := h.financeService.GetTransactions(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *APIHandler) GetEarningsSummary(c *gin.Context) {
	summary, err := h.financeService.GetEarningsSummary(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *APIHandler) RequestPayout(c *gin.Context) {
	var req services.PayoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payout, err := h.financeService.RequestPayout(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payout)
}

func (h *APIHandler) GetPayouts(c *gin.Context) {
	payouts, err := h.financeService.GetPayouts(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payouts)
}
