package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"retail-ops-api/pkg/catalog"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// 価格フィードに最低限必要な列。解析・取り込み自体は外部のインジェスト
// 基盤の責務で、ここでは転送前に形だけ確認する
var requiredFeedColumns = [][]string{
	{"sku", "SKU"},
	{"price", "Price", "unit_price"},
}

// UploadHandler 価格フィードのアップロード転送エンドポイント
type UploadHandler struct {
	catalog catalog.Service
}

// NewUploadHandler は新しいUploadHandlerを生成します。
func NewUploadHandler(svc catalog.Service) *UploadHandler {
	return &UploadHandler{catalog: svc}
}

// UploadPricingFeed はフィードファイルを検証してインジェスト基盤へ転送します。
// POST /api/v1/products/upload (multipart, フィールド名 csvFile)
func (h *UploadHandler) UploadPricingFeed(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB limit

	file, fileHeader, err := c.Request.FormFile("csvFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "csvFile is required"})
		return
	}
	defer file.Close()

	// 検証と転送の両方で読むため、一度バッファに取る
	data, err := io.ReadAll(io.LimitReader(file, 10<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read uploaded file"})
		return
	}

	if err := validateFeed(fileHeader.Filename, data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.catalog.UploadPricingFeed(c.Request.Context(), fileHeader.Filename, bytes.NewReader(data))
	if err != nil {
		log.Printf("pricing feed upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Error uploading file", "retryable": true})
		return
	}

	c.JSON(http.StatusOK, result)
}

// validateFeed は拡張子とヘッダー行だけを確認する
// CSVは encoding/csv、xlsxは excelize で先頭シートを読む
func validateFeed(filename string, data []byte) error {
	var rows [][]string
	name := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(name, ".xlsx"):
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to open Excel file")
		}
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return fmt.Errorf("failed to read Excel sheet")
		}
	case strings.HasSuffix(name, ".csv"):
		r := csv.NewReader(bytes.NewReader(data))
		var err error
		rows, err = r.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to parse CSV file")
		}
	default:
		return fmt.Errorf("unsupported file type: upload a .csv or .xlsx feed")
	}

	if len(rows) < 2 {
		return fmt.Errorf("feed needs a header row and at least one data row")
	}

	header := rows[0]
	for _, candidates := range requiredFeedColumns {
		if findIndex(header, candidates...) == -1 {
			return fmt.Errorf("feed is missing a %q column", candidates[0])
		}
	}
	return nil
}

// findIndex finds the index of the first candidate in a slice
func findIndex(slice []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range slice {
			if strings.EqualFold(strings.TrimSpace(item), candidate) {
				return i
			}
		}
	}
	return -1
}
