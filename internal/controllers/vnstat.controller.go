package controllers

import (
	"context"
	"log"
	"net/http"

	"vnwidget/internal/services"

	"github.com/gin-gonic/gin"
)

// VnstatController serves vnstat data over HTTP
type VnstatController struct {
	vnstat *services.VnstatService
}

func NewVnstatController(vnstat *services.VnstatService) *VnstatController {
	return &VnstatController{vnstat: vnstat}
}

// GetJSON returns the raw `vnstat --json` payload the widget consumes
func (vc *VnstatController) GetJSON(c *gin.Context) {
	data, err := vc.vnstat.GetJSON(c.Request.Context())
	if err != nil {
		log.Printf("[VNSTAT] Failed to get JSON data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// TextView adapts a vnstat text view into a handler
func (vc *VnstatController) TextView(getData func(context.Context) ([]byte, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := getData(c.Request.Context())
		if err != nil {
			log.Printf("[VNSTAT] Failed to get data: %v", err)
			c.String(http.StatusInternalServerError, "Error: %v\n", err)
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
	}
}

// GetMetrics returns Prometheus text exposition of the traffic counters
func (vc *VnstatController) GetMetrics(c *gin.Context) {
	data, err := vc.vnstat.GetJSON(c.Request.Context())
	if err != nil {
		log.Printf("[VNSTAT] Failed to get JSON data for metrics: %v", err)
		c.String(http.StatusInternalServerError, "Failed to fetch data\n")
		return
	}

	metrics, err := services.MetricsFromJSON(data)
	if err != nil {
		log.Printf("[VNSTAT] Failed to parse JSON data: %v", err)
		c.String(http.StatusInternalServerError, "Failed to parse data\n")
		return
	}

	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(metrics))
}

// GetSnapshots returns today/month/total for every interface
func (vc *VnstatController) GetSnapshots(c *gin.Context) {
	snapshots, err := vc.vnstat.GetSnapshots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interfaces": snapshots})
}

// GetHostInterfaces returns live host counters
func (vc *VnstatController) GetHostInterfaces(c *gin.Context) {
	interfaces, err := services.GetHostInterfaces()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, interfaces)
}

// GetHealth needs no token
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
