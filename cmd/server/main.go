package main

import (
	"log"
	"net/http"
	"time"

	config "retail-ops-api/configs"
	"retail-ops-api/pkg/catalog"
	"retail-ops-api/pkg/handlers"
	"retail-ops-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	// Ginルーターの初期化
	r := gin.Default()

	// リモートカタログサービスへのクライアント
	catalogClient := catalog.NewClient(cfg.CatalogServiceURL, timeout)

	// サービスの初期化
	monitoringService := services.NewMonitoringService()
	searchService := services.NewSearchService(catalogClient, timeout)
	saleService := services.NewSaleService(catalogClient, timeout)
	reportService := services.NewReportService(catalogClient, timeout)
	directoryService := services.NewDirectoryService(catalogClient, timeout)

	// ハンドラーの初期化
	productHandler := handlers.NewProductHandler(searchService, directoryService, catalogClient)
	saleHandler := handlers.NewSaleHandler(saleService)
	reportHandler := handlers.NewReportHandler(reportService)
	storeHandler := handlers.NewStoreHandler(directoryService)
	uploadHandler := handlers.NewUploadHandler(catalogClient)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	// 認証ミドルウェア
	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		// 商品カタログAPI
		products := v1.Group("/products")
		{
			products.GET("/search", productHandler.SearchProducts)
			products.GET("/categories", productHandler.GetCategories)
			products.PUT("/edit/:id", productHandler.UpdateProduct)
			products.POST("/upload", uploadHandler.UploadPricingFeed)
		}

		// 店舗参照API
		v1.GET("/store", storeHandler.GetStores)
		v1.POST("/store/reload", storeHandler.ReloadStores)

		// 販売記録API
		v1.POST("/sales/record", saleHandler.RecordSale)

		// ダッシュボードAPI
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/inventory", reportHandler.GetInventoryReport)
			dashboard.GET("/sales", reportHandler.GetSalesReport)
			dashboard.GET("/weekly-sales", reportHandler.GetWeeklySalesReport)
		}

		// モニタリングAPI
		v1.GET("/monitoring/logs", monitoringHandler.GetLogs)
	}

	log.Printf("Starting Retail-Ops API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
