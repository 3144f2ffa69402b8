package services

import (
	"context"
	"time"

	"retail-ops-api/pkg/catalog"
	"retail-ops-api/pkg/models"
)

// SearchService カタログ検索の実行サービス
// QuerySpec をリモートカタログに対して実行し、古くなったレスポンスを抑止する
type SearchService struct {
	catalog catalog.Service
	timeout time.Duration
	guard   staleGuard
}

// NewSearchService は新しい検索サービスを作成する
func NewSearchService(svc catalog.Service, timeout time.Duration) *SearchService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SearchService{catalog: svc, timeout: timeout}
}

// Search は QuerySpec を実行して1ページ分の結果と総件数を返す
//   - Empty な spec はネットワークを呼ばずに必ず空の結果を返す
//   - 新しい Search に追い越された呼び出しは ErrSuperseded を返し、結果は破棄される
//   - リモート障害は RetrievalError のまま返す（呼び出し側は空表示に縮退する）
func (s *SearchService) Search(ctx context.Context, spec models.QuerySpec) (models.SearchResult, error) {
	if spec.Empty {
		return models.SearchResult{Results: []models.Product{}, Total: 0}, nil
	}

	cctx, token := s.guard.begin(ctx, s.timeout)
	defer s.guard.done(token)

	result, err := s.catalog.SearchProducts(cctx, spec)

	// 完了前に次のリクエストが始まっていたら、この結果は適用しない
	if !s.guard.current(token) {
		return models.SearchResult{}, ErrSuperseded
	}
	if err != nil {
		return models.SearchResult{}, err
	}

	// ページ契約: items は pageSize を超えない
	if spec.PageSize > 0 && len(result.Results) > spec.PageSize {
		result.Results = result.Results[:spec.PageSize]
	}
	if result.Results == nil {
		result.Results = []models.Product{}
	}
	return result, nil
}
