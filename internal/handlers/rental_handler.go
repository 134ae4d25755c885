package handlers

import (
	"net/http"

	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) CreateRental(c *gin.Context) {
	var req services.CreateRentalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rental, err := h.rentalService.CreateRental(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rental)
}

func (h *APIHandler) ListRentals(c *gin.Context) {
	seller, ok := asSeller(c)
	if !ok {
		return
	}

	rentals, err := h.rentalService.ListRentals(c.Request.Context(), actor(c), seller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

func (h *APIHandler) GetRental(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rental, err := h.rentalService.GetRental(c.Request.Context(), id, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rental)
}

func (h *APIHandler) UpdateRentalStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rental, err := h.rentalService.UpdateStatus(c.Request.Context(), id, req.Status, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rental)
}
