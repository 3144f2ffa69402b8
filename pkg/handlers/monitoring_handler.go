package handlers

import (
	"net/http"
	"strconv"
	"time"

	"retail-ops-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler はモニタリング関連のエンドポイントを処理します。
type MonitoringHandler struct {
	monitoring *services.MonitoringService
}

// NewMonitoringHandler は新しいMonitoringHandlerを生成します。
func NewMonitoringHandler(monitoring *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoring: monitoring}
}

// GetLogs はリクエストログの集計を返します。
// GET /api/v1/monitoring/logs?hours=24
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	c.JSON(http.StatusOK, h.monitoring.Summary(time.Duration(hours)*time.Hour))
}

// HealthCheck はヘルスチェックエンドポイントです。
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Retail-Ops API",
	})
}
