package handlers

import (
	"net/http"

	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.reviewService.CreateReview(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *APIHandler) GetSupplierReviews(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetSupplierReviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
