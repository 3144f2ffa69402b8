package handlers

import (
	"log"
	"net/http"

	"retail-ops-api/pkg/models"
	"retail-ops-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// StoreHandler 店舗参照データのエンドポイント
type StoreHandler struct {
	directory *services.DirectoryService
}

// NewStoreHandler は新しいStoreHandlerを生成します。
func NewStoreHandler(directory *services.DirectoryService) *StoreHandler {
	return &StoreHandler{directory: directory}
}

// GetStores はフィルタ用の店舗一覧を返します。
// GET /api/v1/store
func (h *StoreHandler) GetStores(c *gin.Context) {
	if err := h.directory.Load(c.Request.Context()); err != nil {
		log.Printf("store directory load failed: %v", err)
		c.JSON(http.StatusOK, []models.Store{})
		return
	}
	c.JSON(http.StatusOK, h.directory.Stores())
}

// ReloadStores はキャッシュを明示的に取り直します。
// POST /api/v1/store/reload
func (h *StoreHandler) ReloadStores(c *gin.Context) {
	if err := h.directory.Reload(c.Request.Context()); err != nil {
		log.Printf("store directory reload failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stores": len(h.directory.Stores())})
}
