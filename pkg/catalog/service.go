package catalog

import (
	"context"
	"io"

	"retail-ops-api/pkg/models"
)

// Service リモートの小売データサービスへの能力インターフェース
// 各サービス/ハンドラーにはこのインターフェースを注入し、テストでは代替実装を使う
type Service interface {
	// SearchProducts は正規化済みの検索条件で1ページ分の商品と総件数を返す
	// 並び順は商品IDで安定しており、同一条件なら全ページで同じ順序になる
	SearchProducts(ctx context.Context, spec models.QuerySpec) (models.SearchResult, error)

	GetAllStores(ctx context.Context) ([]models.Store, error)
	GetAllCategories(ctx context.Context) ([]string, error)

	UpdateProduct(ctx context.Context, productID string, fields models.ProductUpdate) (models.Product, error)
	RecordSale(ctx context.Context, sale models.Sale) (models.Sale, error)

	GetInventoryReport(ctx context.Context) ([]models.InventoryRecord, error)
	GetSalesReport(ctx context.Context, q models.SalesReportQuery) ([]models.SalesReportEntry, error)
	GetWeeklySalesReport(ctx context.Context) ([]models.SalesReportEntry, error)

	// UploadPricingFeed は価格フィードを外部インジェスト基盤へそのまま渡す
	// ファイルの解釈はインジェスト側の責務で、ここでは結果だけを受け取る
	UploadPricingFeed(ctx context.Context, filename string, file io.Reader) (models.UploadResult, error)
}
