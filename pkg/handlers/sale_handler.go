package handlers

import (
	"errors"
	"log"
	"net/http"

	"retail-ops-api/pkg/models"
	"retail-ops-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// SaleHandler 販売記録エンドポイント
type SaleHandler struct {
	sales *services.SaleService
}

// NewSaleHandler は新しいSaleHandlerを生成します。
func NewSaleHandler(sales *services.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// RecordSale は販売1件を検証して記録します。
// POST /api/v1/sales/record
// 検証エラーはフィールド単位で返し、ネットワークには出さない。
// 送信失敗はリトライ可能として入力保持をクライアントに任せる。
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var draft models.SaleDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	sale, err := h.sales.Record(c.Request.Context(), draft)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": verr.Fields})
			return
		}
		log.Printf("sale recording failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to record sale.", "retryable": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sale": sale})
}
