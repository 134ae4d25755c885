package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	searchService       services.SearchService
	inventoryService    services.InventoryService
	orderService        services.OrderService
	rentalService       services.RentalService
	reviewService       services.ReviewService
	profileService      services.ProfileService
	catalogService      services.CatalogService
	notificationService services.NotificationService
	financeService      services.FinanceService
	defaultRadiusKm     float64
}

type Services struct {
	Search        services.SearchService
	Inventory     services.InventoryService
	Orders        services.OrderService
	Rentals       services.RentalService
	Reviews       services.ReviewService
	Profiles      services.ProfileService
	Catalog       services.CatalogService
	Notifications services.NotificationService
	Finance       services.FinanceService
}

func NewAPIHandler(svc Services, defaultRadiusKm float64) *APIHandler {
	return &APIHandler{
		searchService:       svc.Search,
		inventoryService:    svc.Inventory,
		orderService:        svc.Orders,
		rentalService:       svc.Rentals,
		reviewService:       svc.Reviews,
		profileService:      svc.Profiles,
		catalogService:      svc.Catalog,
		notificationService: svc.Notifications,
		financeService:      svc.Finance,
		defaultRadiusKm:     defaultRadiusKm,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{services.ErrInvalidQuery, "invalid_query", http.StatusBadRequest},
	{services.ErrInvalidAdjustment, "invalid_adjustment", http.StatusBadRequest},
	{services.ErrInsufficientStock, "insufficient_stock", http.StatusBadRequest},
	{services.ErrInvalidStatus, "invalid_status", http.StatusBadRequest},
	{services.ErrInvalidTransition, "invalid_transition", http.StatusBadRequest},
	{services.ErrInvalidInput, "invalid_input", http.StatusBadRequest},
	{services.ErrNotFound, "not_found", http.StatusNotFound},
	{services.ErrConflict, "conflict", http.StatusConflict},
	{services.ErrForbidden, "forbidden", http.StatusForbidden},
}

// respondError writes the client-facing form of err. Anything that is not a
// known domain error is logged and reported as internal_error.
func respondError(c *gin.Context, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			c.JSON(k.status, errorResponse{Error: k.kind, Message: err.Error()})
			return
		}
	}

	log.Printf("Error: %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal_error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_input", Message: err.Error()})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_input", Message: "invalid id " + c.Param("id")})
		return 0, false
	}
	return uint(id), true
}

// asSeller reads ?as=buyer|seller, defaulting to buyer.
func asSeller(c *gin.Context) (bool, bool) {
	switch c.DefaultQuery("as", "buyer") {
	case "buyer":
		return false, true
	case "seller":
		return true, true
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_input", Message: "as must be buyer or seller"})
	return false, false
}
