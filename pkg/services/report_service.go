package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"retail-ops-api/pkg/catalog"
	"retail-ops-api/pkg/models"
)

// レポートの粒度と表示モード
const (
	TimeFrameDaily   = "daily"
	TimeFrameWeekly  = "weekly"
	TimeFrameMonthly = "monthly"

	ViewModeUnits   = "units"
	ViewModeRevenue = "revenue"
)

// ValidTimeFrame は粒度指定が正しいかどうかを返す
func ValidTimeFrame(tf string) bool {
	return tf == TimeFrameDaily || tf == TimeFrameWeekly || tf == TimeFrameMonthly
}

// ReportService 在庫・売上レポートの取得と整形
// 取得はリモート任せ、整形（後段フィルタ・系列選択・ローカル集計）はここで行う
type ReportService struct {
	catalog     catalog.Service
	timeout     time.Duration
	invGuard    staleGuard
	salesGuard  staleGuard
	weeklyGuard staleGuard
}

// NewReportService は新しいレポートサービスを作成する
func NewReportService(svc catalog.Service, timeout time.Duration) *ReportService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReportService{catalog: svc, timeout: timeout}
}

// Inventory は在庫レポートを取得し、在庫数の範囲で絞り込んで返す
// 古いリクエストの結果は破棄される（ErrSuperseded）
func (s *ReportService) Inventory(ctx context.Context, minStock, maxStock float64) ([]models.InventoryRecord, error) {
	cctx, token := s.invGuard.begin(ctx, s.timeout)
	defer s.invGuard.done(token)

	records, err := s.catalog.GetInventoryReport(cctx)
	if !s.invGuard.current(token) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return FilterInventory(records, minStock, maxStock), nil
}

// Sales は売上レポートを取得する
// 行が生の日付行（未バケット）であればローカルで要求粒度に集計する。
// 上流でバケット済みのラベルを持つ行には日付演算を行わず、順序も保持する
func (s *ReportService) Sales(ctx context.Context, q models.SalesReportQuery) ([]models.SalesReportEntry, error) {
	cctx, token := s.salesGuard.begin(ctx, s.timeout)
	defer s.salesGuard.done(token)

	entries, err := s.catalog.GetSalesReport(cctx, q)
	if !s.salesGuard.current(token) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	if q.TimeFrame != "" {
		entries = BucketEntries(entries, q.TimeFrame)
	}
	return entries, nil
}

// WeeklySales は商品ごとの週次売上レポートを取得する
func (s *ReportService) WeeklySales(ctx context.Context) ([]models.SalesReportEntry, error) {
	cctx, token := s.weeklyGuard.begin(ctx, s.timeout)
	defer s.weeklyGuard.done(token)

	entries, err := s.catalog.GetWeeklySalesReport(cctx)
	if !s.weeklyGuard.current(token) {
		return nil, ErrSuperseded
	}
	return entries, err
}

// FilterInventory は minStock ≤ currentStock ≤ maxStock（両端含む）の行だけを
// 入力順のまま返す。maxStock に +Inf を渡せば上限なし
func FilterInventory(records []models.InventoryRecord, minStock, maxStock float64) []models.InventoryRecord {
	if math.IsNaN(maxStock) || maxStock == 0 {
		maxStock = math.Inf(1)
	}
	out := make([]models.InventoryRecord, 0, len(records))
	for _, r := range records {
		if r.CurrentStock >= minStock && r.CurrentStock <= maxStock {
			out = append(out, r)
		}
	}
	return out
}

// InventoryChartData は在庫行をチャート用の並行配列に変換する
// ラベル=商品名、値=現在庫
func InventoryChartData(records []models.InventoryRecord) models.ChartData {
	data := models.ChartData{
		Labels: make([]string, 0, len(records)),
		Values: make([]float64, 0, len(records)),
	}
	for _, r := range records {
		data.Labels = append(data.Labels, r.ProductName)
		data.Values = append(data.Values, r.CurrentStock)
	}
	return data
}

// SalesChartData は売上行から表示モードに応じた系列を選ぶ
// バケットの順序は入力のまま変えない
func SalesChartData(entries []models.SalesReportEntry, viewMode string) models.ChartData {
	data := models.ChartData{
		Labels: make([]string, 0, len(entries)),
		Values: make([]float64, 0, len(entries)),
	}
	for _, e := range entries {
		data.Labels = append(data.Labels, e.TimeFrame)
		if viewMode == ViewModeRevenue {
			data.Values = append(data.Values, e.TotalRevenue)
		} else {
			data.Values = append(data.Values, e.TotalUnitsSold)
		}
	}
	return data
}

// BucketSales は生の販売行をローカルで集計してレポート行にする
// （上流のバケット処理が使えない場合のフォールバック）
func BucketSales(sales []models.Sale, timeFrame string) []models.SalesReportEntry {
	entries := make([]models.SalesReportEntry, 0, len(sales))
	for _, s := range sales {
		entries = append(entries, models.SalesReportEntry{
			TimeFrame:      s.Date,
			StoreID:        s.StoreID,
			TotalUnitsSold: float64(s.Quantity),
			TotalRevenue:   s.TotalPrice,
		})
	}
	return BucketEntries(entries, timeFrame)
}

// BucketEntries は行を要求粒度のバケットにまとめ、バケット開始日の昇順で返す
//   - バケットキー = 日付を粒度（日/ISO週/月）で切り捨てたもの
//   - 1行でも解釈できないラベルがあれば入力をそのまま返す
//     （上流バケット済みの行に日付演算を持ち込まないため）
//   - 決定的かつ冪等：同じ粒度で集計済みの出力を再集計しても変化しない
func BucketEntries(entries []models.SalesReportEntry, timeFrame string) []models.SalesReportEntry {
	type bucket struct {
		start time.Time
		entry models.SalesReportEntry
	}

	buckets := make(map[string]*bucket, len(entries))
	order := make([]string, 0, len(entries))

	for _, e := range entries {
		start, label, err := normalizeBucket(e.TimeFrame, timeFrame)
		if err != nil {
			return entries
		}
		b, ok := buckets[label]
		if !ok {
			b = &bucket{start: start, entry: models.SalesReportEntry{TimeFrame: label, StoreID: e.StoreID}}
			buckets[label] = b
			order = append(order, label)
		}
		if b.entry.StoreID != e.StoreID {
			b.entry.StoreID = ""
		}
		b.entry.TotalUnitsSold += e.TotalUnitsSold
		b.entry.TotalRevenue += e.TotalRevenue
	}

	sort.Slice(order, func(i, j int) bool {
		return buckets[order[i]].start.Before(buckets[order[j]].start)
	})

	out := make([]models.SalesReportEntry, 0, len(order))
	for _, label := range order {
		out = append(out, buckets[label].entry)
	}
	return out
}

// normalizeBucket はラベルをバケット開始日と正規化ラベルに解決する
// 受け付けるのは完全な日付（YYYY-MM-DD）か、すでに要求粒度の形式のラベルだけ
func normalizeBucket(label, timeFrame string) (time.Time, string, error) {
	if t, err := time.Parse("2006-01-02", label); err == nil {
		return truncateToBucket(t, timeFrame)
	}

	switch timeFrame {
	case TimeFrameWeekly:
		var year, week int
		if _, err := fmt.Sscanf(label, "%4d-W%2d", &year, &week); err == nil && week >= 1 && week <= 53 {
			return isoWeekStart(year, week), label, nil
		}
	case TimeFrameMonthly:
		if t, err := time.Parse("2006-01", label); err == nil {
			return t, label, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognized bucket label %q for %s", label, timeFrame)
}

// truncateToBucket は日付を粒度ごとのバケット開始日に切り捨てる
func truncateToBucket(t time.Time, timeFrame string) (time.Time, string, error) {
	switch timeFrame {
	case TimeFrameDaily:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return day, day.Format("2006-01-02"), nil
	case TimeFrameWeekly:
		year, week := t.ISOWeek()
		return isoWeekStart(year, week), fmt.Sprintf("%04d-W%02d", year, week), nil
	case TimeFrameMonthly:
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return month, month.Format("2006-01"), nil
	}
	return time.Time{}, "", fmt.Errorf("unknown time frame %q", timeFrame)
}

// isoWeekStart はISO週の開始日（月曜）を返す
// 1月4日は常に第1週に含まれる
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
