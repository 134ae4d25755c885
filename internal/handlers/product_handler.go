package handlers

import (
	"net/http"

	"agri_market/internal/models"
	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type adjustStockRequest struct {
	Delta      int    `json:"delta"`
	ChangeType string `json:"change_type" binding:"required"`
	Notes      string `json:"notes"`
}

type adjustProduceRequest struct {
	Delta      decimal.Decimal `json:"delta"`
	ChangeType string          `json:"change_type" binding:"required"`
	Notes      string          `json:"notes"`
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

func (h *APIHandler) CreateProduct(c *gin.Context) {
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *APIHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *APIHandler) GetMyProducts(c *gin.Context) {
	products, err := h.catalogService.GetMyProducts(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *APIHandler) SetProductAvailability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.catalogService.SetProductAvailability(c.Request.Context(), id, actor(c), *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *APIHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quantity, err := h.inventoryService.AdjustStock(c.Request.Context(), id, req.Delta, models.StockChangeType(req.ChangeType), actor(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "new_quantity": quantity})
}

func (h *APIHandler) GetStockLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	logs, err := h.inventoryService.GetStockLogs(c.Request.Context(), id, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *APIHandler) GetInventoryStats(c *gin.Context) {
	stats, err := h.inventoryService.GetInventoryStats(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *APIHandler) CreateEquipment(c *gin.Context) {
	var req services.EquipmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	equipment, err := h.catalogService.CreateEquipment(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, equipment)
}

func (h *APIHandler) CreateProduce(c *gin.Context) {
	var req services.ProduceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	produce, err := h.catalogService.CreateProduce(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, produce)
}

func (h *APIHandler) AdjustProduce(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req adjustProduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quantity, err := h.inventoryService.AdjustProduce(c.Request.Context(), id, req.Delta, models.StockChangeType(req.ChangeType), actor(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"produce_id": id, "new_quantity": quantity})
}

func (h *APIHandler) GetProduceLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	logs, err := h.inventoryService.GetProduceLogs(c.Request.Context(), id, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
