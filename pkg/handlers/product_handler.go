package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"retail-ops-api/pkg/catalog"
	"retail-ops-api/pkg/models"
	"retail-ops-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ProductHandler 商品カタログ関連のエンドポイント
type ProductHandler struct {
	search    *services.SearchService
	directory *services.DirectoryService
	catalog   catalog.Service
}

// NewProductHandler は新しいProductHandlerを生成します。
func NewProductHandler(search *services.SearchService, directory *services.DirectoryService, svc catalog.Service) *ProductHandler {
	return &ProductHandler{search: search, directory: directory, catalog: svc}
}

// SearchProducts はフィルタ入力を正規化してカタログ検索を実行します。
// GET /api/v1/products/search?query=&storeIds=&categories=&minPrice=&maxPrice=&page=&limit=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	input := services.QueryInput{
		Text:       c.Query("query"),
		StoreIDs:   splitCSV(c.Query("storeIds")),
		Categories: splitCSV(c.Query("categories")),
	}

	var err error
	if input.MinPrice, err = optionalFloat(c.Query("minPrice")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "minPrice must be a number"})
		return
	}
	if input.MaxPrice, err = optionalFloat(c.Query("maxPrice")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "maxPrice must be a number"})
		return
	}
	if input.Page, err = optionalInt(c.DefaultQuery("page", "1")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "page must be an integer"})
		return
	}
	if input.PageSize, err = optionalInt(c.DefaultQuery("limit", "10")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit must be an integer"})
		return
	}

	spec := services.BuildQuery(input)
	result, err := h.search.Search(c.Request.Context(), spec)
	if err != nil {
		if errors.Is(err, services.ErrSuperseded) {
			// 新しい検索に追い越された結果は描画させない
			c.JSON(http.StatusOK, gin.H{"results": []models.Product{}, "total": 0, "superseded": true})
			return
		}
		// 読み取り失敗は空表示に縮退する（ビューは落とさない）
		log.Printf("search degraded to empty result: %v", err)
		c.JSON(http.StatusOK, gin.H{"results": []models.Product{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": result.Results,
		"total":   result.Total,
		"page":    spec.Page,
		"limit":   spec.PageSize,
	})
}

// UpdateProduct は商品を更新します。
// PUT /api/v1/products/edit/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")
	if strings.TrimSpace(productID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "product id is required"})
		return
	}

	var fields models.ProductUpdate
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	// 編集フォームと同じフィールド単位の検証
	var fieldErrs []models.FieldError
	if strings.TrimSpace(fields.ProductName) == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "productName", Message: "Product Name is required"})
	}
	if fields.Price <= 0 {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "price", Message: "Valid Price is required"})
	}
	if strings.TrimSpace(fields.StoreID) == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "storeId", Message: "Store is required"})
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fieldErrs})
		return
	}
	if strings.TrimSpace(fields.ProductCategory) == "" {
		fields.ProductCategory = models.DefaultCategory
	}

	updated, err := h.catalog.UpdateProduct(c.Request.Context(), productID, fields)
	if err != nil {
		log.Printf("product update failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Error updating product", "retryable": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": updated})
}

// GetCategories はフィルタ用のカテゴリ一覧を返します。
// GET /api/v1/products/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	if err := h.directory.Load(c.Request.Context()); err != nil {
		log.Printf("category directory load failed: %v", err)
		c.JSON(http.StatusOK, []string{})
		return
	}
	c.JSON(http.StatusOK, h.directory.Categories())
}

// splitCSV はカンマ区切りパラメータを分解する（空要素は捨てる）
func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func optionalFloat(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalInt(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
