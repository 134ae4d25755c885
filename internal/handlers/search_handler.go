package handlers

import (
	"net/http"

	"agri_market/internal/models"
	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) SearchProductsNearby(c *gin.Context) {
	h.searchNearby(c, models.KindProduct, c.Query("category"))
}

func (h *APIHandler) SearchEquipmentNearby(c *gin.Context) {
	category := c.Query("equipment_type")
	if category == "" {
		category = c.Query("category")
	}
	h.searchNearby(c, models.KindEquipment, category)
}

func (h *APIHandler) SearchProduceNearby(c *gin.Context) {
	h.searchNearby(c, models.KindProduce, c.Query("category"))
}

func (h *APIHandler) searchNearby(c *gin.Context, kind models.ListingKind, category string) {
	query, err := services.ParseSearchQuery(kind, c.Query("latitude"), c.Query("longitude"), c.Query("max_distance"), category, h.defaultRadiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.searchService.SearchNearby(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":           len(results),
		"max_distance_km": query.MaxDistanceKm,
		"results":         results,
	})
}
