package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"retail-ops-api/pkg/models"
	"retail-ops-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ReportHandler 在庫・売上レポートのエンドポイント
type ReportHandler struct {
	reports *services.ReportService
}

// NewReportHandler は新しいReportHandlerを生成します。
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetInventoryReport は在庫レポートを在庫数の範囲で絞り込んで返します。
// GET /api/v1/dashboard/inventory?minStock=&maxStock=
func (h *ReportHandler) GetInventoryReport(c *gin.Context) {
	minStock, err := floatOrDefault(c.Query("minStock"), 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "minStock must be a number"})
		return
	}
	maxStock, err := floatOrDefault(c.Query("maxStock"), math.Inf(1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "maxStock must be a number"})
		return
	}

	records, err := h.reports.Inventory(c.Request.Context(), minStock, maxStock)
	if err != nil {
		h.degrade(c, "inventory report", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  records,
		"chart": services.InventoryChartData(records),
	})
}

// GetSalesReport は期間・店舗・粒度で絞った売上の時系列を返します。
// GET /api/v1/dashboard/sales?startDate=&endDate=&storeId=&timeFrame=&viewMode=
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	timeFrame := c.DefaultQuery("timeFrame", services.TimeFrameDaily)
	if !services.ValidTimeFrame(timeFrame) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "timeFrame must be daily, weekly or monthly"})
		return
	}
	viewMode := c.DefaultQuery("viewMode", services.ViewModeUnits)
	if viewMode != services.ViewModeUnits && viewMode != services.ViewModeRevenue {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "viewMode must be units or revenue"})
		return
	}

	query := models.SalesReportQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		StoreID:   c.Query("storeId"),
		TimeFrame: timeFrame,
	}

	entries, err := h.reports.Sales(c.Request.Context(), query)
	if err != nil {
		h.degrade(c, "sales report", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"chart": services.SalesChartData(entries, viewMode),
	})
}

// GetWeeklySalesReport は商品ごとの週次売上を返します。
// GET /api/v1/dashboard/weekly-sales
func (h *ReportHandler) GetWeeklySalesReport(c *gin.Context) {
	entries, err := h.reports.WeeklySales(c.Request.Context())
	if err != nil {
		h.degrade(c, "weekly sales report", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// degrade は読み取り失敗を空データの200に縮退させる
// 追い越された結果には superseded を付けて描画させない
func (h *ReportHandler) degrade(c *gin.Context, op string, err error) {
	if errors.Is(err, services.ErrSuperseded) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}, "superseded": true})
		return
	}
	log.Printf("%s degraded to empty result: %v", op, err)
	c.JSON(http.StatusOK, gin.H{"data": []any{}})
}

func floatOrDefault(raw string, def float64) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}
