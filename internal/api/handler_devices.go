package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// GetDevices handles GET /api/devices: the sorted unique device names across
// all brand sheets of the price catalog.
func (h *Handler) GetDevices(c *gin.Context) {
	devices, err := h.store.ListDevices(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve devices"})
		return
	}
	if len(devices) == 0 {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "device catalog is unavailable"})
		return
	}
	sort.Strings(devices)
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// GetDevicePrice handles GET /api/devices/price?device=...&condition=...
// With a condition it returns that tier's offer; without one it returns the
// highest offer across all tiers. A missing device or tier is an empty
// result, not an error.
func (h *Handler) GetDevicePrice(c *gin.Context) {
	device := c.Query("device")
	if device == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "device is required"})
		return
	}

	if condition := c.Query("condition"); condition != "" {
		q, err := h.store.LookupPrice(c.Request.Context(), device, condition)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "price lookup failed"})
			return
		}
		if q == nil {
			c.JSON(http.StatusOK, PriceBanner{Available: false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"available": true, "quote": q})
		return
	}

	q, err := h.store.HighestOffer(c.Request.Context(), device)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "price lookup failed"})
		return
	}
	if q == nil {
		c.JSON(http.StatusOK, PriceBanner{Available: false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "quote": q})
}
