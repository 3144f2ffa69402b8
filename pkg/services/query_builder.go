package services

import (
	"sort"
	"strings"

	"retail-ops-api/pkg/models"
)

// DefaultPageSize ページサイズ未指定時の既定値
const DefaultPageSize = 10

// QueryInput フィルタUIからの生の入力値（未入力を許容する）
type QueryInput struct {
	Text       string
	StoreIDs   []string
	Categories []string
	MinPrice   *float64 // nil = 未設定
	MaxPrice   *float64 // nil = 未設定
	Page       int
	PageSize   int
}

// BuildQuery は生のフィルタ入力を正規化済みの QuerySpec に変換する
// 純粋関数：同じ入力からは常に同値の QuerySpec が得られる
//   - 空テキスト → 全件一致
//   - 空の集合 → 店舗/カテゴリ制限なし
//   - 未設定の min/max → [0, +∞)
//   - min > max → Empty を立てる（エラーにはせず、結果が必ず空になる条件として扱う）
func BuildQuery(in QueryInput) models.QuerySpec {
	spec := models.QuerySpec{
		Text:       strings.TrimSpace(in.Text),
		StoreIDs:   normalizeSet(in.StoreIDs),
		Categories: normalizeSet(in.Categories),
		Page:       in.Page,
		PageSize:   in.PageSize,
	}

	if spec.Page < 1 {
		spec.Page = 1
	}
	if spec.PageSize <= 0 {
		spec.PageSize = DefaultPageSize
	}

	if in.MinPrice != nil && *in.MinPrice > 0 {
		spec.MinPrice = *in.MinPrice
	}
	if in.MaxPrice != nil {
		spec.MaxPrice = *in.MaxPrice
		spec.HasMax = true
	}

	if spec.HasMax && spec.MinPrice > spec.MaxPrice {
		spec.Empty = true
	}

	return spec
}

// normalizeSet は重複と空要素を除き、昇順に整列した集合を返す
func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
