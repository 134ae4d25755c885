package handlers

import (
	"net/http"

	"agri_market/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) GetMe(c *gin.Context) {
	user, err := h.profileService.GetUser(c.Request.Context(), actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *APIHandler) UpdateMyLocation(c *gin.Context) {
	var req services.LocationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.profileService.UpdateLocation(c.Request.Context(), actor(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *APIHandler) GetSupplierProfile(c *gin.Context) {
	profile, found, err := h.profileService.FindSupplierProfile(c.Request.Context(), actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not_found", Message: "supplier profile does not exist"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *APIHandler) EnsureSupplierProfile(c *gin.Context) {
	profile, created, err := h.profileService.GetOrCreateSupplierProfile(c.Request.Context(), actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, profile)
}

func (h *APIHandler) GetFarmerProfile(c *gin.Context) {
	profile, found, err := h.profileService.FindFarmerProfile(c.Request.Context(), actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not_found", Message: "farmer profile does not exist"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *APIHandler) EnsureFarmerProfile(c *gin.Context) {
	profile, created, err := h.profileService.GetOrCreateFarmerProfile(c.Request.Context(), actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, profile)
}
