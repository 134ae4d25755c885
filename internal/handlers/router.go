package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every endpoint. Search and product reads are public; the
// rest need a bearer token.
func NewRouter(h *APIHandler, validator TokenValidator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	{
		public.GET("/products/search_nearby", h.SearchProductsNearby)
		public.GET("/equipment/search_nearby", h.SearchEquipmentNearby)
		public.GET("/produce/search_nearby", h.SearchProduceNearby)
		public.GET("/products/:id", h.GetProduct)
		public.GET("/suppliers/:id/reviews", h.GetSupplierReviews)
	}

	api := router.Group("/api", AuthRequired(validator))
	{
		api.GET("/users/me", h.GetMe)
		api.PUT("/users/me/location", h.UpdateMyLocation)

		api.GET("/profiles/supplier/me", h.GetSupplierProfile)
		api.POST("/profiles/supplier/me", h.EnsureSupplierProfile)
		api.GET("/profiles/farmer/me", h.GetFarmerProfile)
		api.POST("/profiles/farmer/me", h.EnsureFarmerProfile)

		api.POST("/products", h.CreateProduct)
		api.GET("/products/mine", h.GetMyProducts)
		api.GET("/products/inventory_stats", h.GetInventoryStats)
		api.POST("/products/:id/adjust_stock", h.AdjustStock)
		api.GET("/products/:id/stock_logs", h.GetStockLogs)
		api.PATCH("/products/:id/availability", h.SetProductAvailability)
		api.POST("/equipment", h.CreateEquipment)
		api.POST("/produce", h.CreateProduce)
		api.POST("/produce/:id/adjust_stock", h.AdjustProduce)
		api.GET("/produce/:id/stock_logs", h.GetProduceLogs)

		api.POST("/orders", h.CreateOrder)
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.PATCH("/orders/:id", h.UpdateOrderStatus)
		api.PATCH("/orders/:id/payment", h.UpdateOrderPayment)

		api.POST("/rentals", h.CreateRental)
		api.GET("/rentals", h.ListRentals)
		api.GET("/rentals/:id", h.GetRental)
		api.PATCH("/rentals/:id", h.UpdateRentalStatus)

		api.POST("/reviews", h.CreateReview)

		api.GET("/notifications", h.GetNotifications)
		api.PATCH("/notifications/:id/read", h.MarkNotificationRead)

		api.GET("/finance/transactions", h.GetTransactions)
		api.GET("/finance/summary", h.GetEarningsSummary)
		api.POST("/finance/payouts", h.RequestPayout)
		api.GET("/finance/payouts", h.GetPayouts)
	}

	return router
}
