package models

import (
	"math"
	"strings"
)

// Product リモートカタログサービスが返す商品1件
// JSONキーはカタログサービスの既存スキーマに合わせている
type Product struct {
	ProdID          string  `json:"Prod ID"`
	ProductName     string  `json:"Product Name"`
	SKU             string  `json:"SKU"`
	Price           float64 `json:"Price"`
	StoreID         string  `json:"Store ID"`
	ProductCategory string  `json:"Product Category,omitempty"`
}

// DefaultCategory カテゴリ未設定の商品はここに分類される
const DefaultCategory = "Others"

// UnknownStoreName 店舗IDが解決できない場合の表示名
const UnknownStoreName = "Other"

// Category は商品カテゴリを返す（未設定なら "Others"）
func (p Product) Category() string {
	if strings.TrimSpace(p.ProductCategory) == "" {
		return DefaultCategory
	}
	return p.ProductCategory
}

// Store 店舗の参照データ
type Store struct {
	StoreID   string `json:"storeId"`
	StoreName string `json:"storeName"`
}

// Sale 記録済みの販売トランザクション
// TotalPrice は記録時点で確定し、以後の商品価格の変更には追随しない
type Sale struct {
	StoreID    string  `json:"storeId"`
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	Date       string  `json:"date"` // YYYY-MM-DD
	TotalPrice float64 `json:"totalPrice"`
}

// SaleDraft 送信前の販売入力
// UnitPrice は商品選択時点のスナップショットで、送信時に再取得しない
type SaleDraft struct {
	StoreID   string  `json:"storeId"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Date      string  `json:"date"`
	UnitPrice float64 `json:"unitPrice"`
}

// TotalPrice は常に unitPrice × quantity（都度計算する導出値）
func (d SaleDraft) TotalPrice() float64 {
	return d.UnitPrice * float64(d.Quantity)
}

// InventoryRecord 在庫レポートの1行（商品ごと）
type InventoryRecord struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	CurrentStock float64 `json:"currentStock"`
	LastUpdated  string  `json:"lastUpdated,omitempty"`
}

// SalesReportEntry 売上レポートの1行（バケット[×店舗]ごと）
// 週次レポートでは ProductID/ProductName が入る
type SalesReportEntry struct {
	TimeFrame      string  `json:"timeFrame"`
	StoreID        string  `json:"storeId,omitempty"`
	ProductID      string  `json:"productId,omitempty"`
	ProductName    string  `json:"productName,omitempty"`
	TotalUnitsSold float64 `json:"totalUnitsSold"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// SalesReportQuery 売上レポート取得の条件
type SalesReportQuery struct {
	StartDate string
	EndDate   string
	StoreID   string
	TimeFrame string // daily | weekly | monthly
}

// QuerySpec 正規化済みのカタログ検索条件
// 同じ入力からは常に同値の QuerySpec が得られる（Equal で比較可能）
type QuerySpec struct {
	Text       string
	StoreIDs   []string // 重複なし・昇順
	Categories []string // 重複なし・昇順
	MinPrice   float64
	MaxPrice   float64 // HasMax が false のとき未設定（上限なし）
	HasMax     bool
	Page       int // 1始まり
	PageSize   int
	Empty      bool // min > max など、結果が必ず空になる条件
}

// Equal は2つの QuerySpec の値同値性を判定する
func (q QuerySpec) Equal(o QuerySpec) bool {
	if q.Text != o.Text || q.MinPrice != o.MinPrice || q.HasMax != o.HasMax ||
		q.Page != o.Page || q.PageSize != o.PageSize || q.Empty != o.Empty {
		return false
	}
	if q.HasMax && q.MaxPrice != o.MaxPrice {
		return false
	}
	return equalStrings(q.StoreIDs, o.StoreIDs) && equalStrings(q.Categories, o.Categories)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MaxPriceOrInf は価格上限を返す（未設定なら +Inf）
func (q QuerySpec) MaxPriceOrInf() float64 {
	if !q.HasMax {
		return math.Inf(1)
	}
	return q.MaxPrice
}

// SearchResult カタログ検索の1ページ分の結果
type SearchResult struct {
	Results []Product `json:"results"`
	Total   int       `json:"total"`
}

// ProductUpdate 商品編集フォームが送る更新フィールド
type ProductUpdate struct {
	ProductName     string  `json:"productName"`
	SKU             string  `json:"sku"`
	Price           float64 `json:"price"`
	StoreID         string  `json:"storeId"`
	ProductCategory string  `json:"productCategory"`
}

// UploadResult 外部インジェスト基盤からの取り込み結果
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Rows    int    `json:"rows,omitempty"`
}

// ChartData チャート描画用の並行配列（ラベルと値）
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}
