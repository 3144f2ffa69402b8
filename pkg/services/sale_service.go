package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"retail-ops-api/pkg/catalog"
	"retail-ops-api/pkg/models"
)

// SaleService 販売記録ワークフロー
// 下書きは1件だけ保持する（同時編集は想定しない）。商品選択時に単価を
// スナップショットし、合計金額は常に unitPrice × quantity を都度計算する
type SaleService struct {
	catalog catalog.Service
	timeout time.Duration

	mu    sync.Mutex
	draft models.SaleDraft
}

// NewSaleService は新しい販売記録サービスを作成する
func NewSaleService(svc catalog.Service, timeout time.Duration) *SaleService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SaleService{catalog: svc, timeout: timeout}
}

// SelectProduct は商品を選択し、その時点の単価をスナップショットする
// 店舗が未選択で商品に店舗が紐付いていれば、店舗を商品から補完する
// （片方向のデフォルトであり、ユーザーは後から上書きできる）
func (s *SaleService) SelectProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.ProductID = p.ProdID
	s.draft.UnitPrice = p.Price
	if s.draft.StoreID == "" && p.StoreID != "" {
		s.draft.StoreID = p.StoreID
	}
	if s.draft.Quantity == 0 {
		s.draft.Quantity = 1
	}
}

// SetStore は店舗を明示的に変更する。商品の選択は店舗に依存するため破棄する
func (s *SaleService) SetStore(storeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.StoreID = storeID
	s.draft.ProductID = ""
	s.draft.UnitPrice = 0
}

// SetQuantity は数量を変更する
func (s *SaleService) SetQuantity(quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Quantity = quantity
}

// SetDate は販売日を変更する（YYYY-MM-DD）
func (s *SaleService) SetDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Date = date
}

// Draft は現在の下書きのスナップショットを返す
func (s *SaleService) Draft() models.SaleDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// TotalPrice は現在の下書きの合計金額を返す（表示用の導出値）
func (s *SaleService) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.TotalPrice()
}

// Reset は下書きを破棄する
func (s *SaleService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = models.SaleDraft{}
}

// Submit は現在の下書きを検証して送信する
// 成功したら下書きを破棄し、失敗したら下書きを保持したまま返す
func (s *SaleService) Submit(ctx context.Context) (models.Sale, error) {
	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()

	sale, err := s.Record(ctx, draft)
	if err != nil {
		return models.Sale{}, err
	}

	s.mu.Lock()
	// 送信中に下書きが変わっていなければ破棄する
	if s.draft == draft {
		s.draft = models.SaleDraft{}
	}
	s.mu.Unlock()
	return sale, nil
}

// Record は下書き1件を検証してリモートに記録する
// 検証に1つでも失敗したらネットワークは呼ばず ValidationError を返す
func (s *SaleService) Record(ctx context.Context, draft models.SaleDraft) (models.Sale, error) {
	if verr := ValidateSaleDraft(draft); verr != nil {
		return models.Sale{}, verr
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sale := models.Sale{
		StoreID:    draft.StoreID,
		ProductID:  draft.ProductID,
		Quantity:   draft.Quantity,
		Date:       draft.Date,
		TotalPrice: draft.TotalPrice(),
	}
	recorded, err := s.catalog.RecordSale(cctx, sale)
	if err != nil {
		// SubmissionError：入力は保持され、リトライ可能
		return models.Sale{}, err
	}
	return recorded, nil
}

// ValidateSaleDraft は下書きを検証し、失敗したルールごとに1つの
// フィールドエラーを返す。全ルールを通過したら nil
func ValidateSaleDraft(draft models.SaleDraft) *models.ValidationError {
	var fields []models.FieldError
	if strings.TrimSpace(draft.StoreID) == "" {
		fields = append(fields, models.FieldError{Field: "storeId", Message: "Store is required"})
	}
	if strings.TrimSpace(draft.ProductID) == "" {
		fields = append(fields, models.FieldError{Field: "productId", Message: "Product is required"})
	}
	if draft.Quantity <= 0 {
		fields = append(fields, models.FieldError{Field: "quantity", Message: "Quantity must be a positive number"})
	}
	if strings.TrimSpace(draft.Date) == "" {
		fields = append(fields, models.FieldError{Field: "date", Message: "Date is required"})
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}
