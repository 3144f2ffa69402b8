package services

import (
	"context"
	"sync"
	"time"

	"retail-ops-api/pkg/catalog"
	"retail-ops-api/pkg/models"
)

// DirectoryService 店舗・カテゴリの参照リストのセッションキャッシュ
// フィルタの選択肢を埋めるために使う。初回ロード後は読み取りが大半で、
// 更新は明示的な Reload のみ（自動失効はしない）
type DirectoryService struct {
	catalog catalog.Service
	timeout time.Duration

	mu         sync.RWMutex
	loaded     bool
	stores     []models.Store
	categories []string
}

// NewDirectoryService は新しいディレクトリサービスを作成する
func NewDirectoryService(svc catalog.Service, timeout time.Duration) *DirectoryService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DirectoryService{catalog: svc, timeout: timeout}
}

// Load はセッションにつき一度だけ参照リストを取得する
// すでにロード済みなら何もしない
func (s *DirectoryService) Load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Reload(ctx)
}

// Reload はキャッシュを明示的に取り直す。鮮度の判断は呼び出し側に任せる
func (s *DirectoryService) Reload(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stores, err := s.catalog.GetAllStores(cctx)
	if err != nil {
		return err
	}
	categories, err := s.catalog.GetAllCategories(cctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.stores = stores
	s.categories = categories
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Stores は店舗リストのスナップショットを返す（取得時の順序のまま）
func (s *DirectoryService) Stores() []models.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Store, len(s.stores))
	copy(out, s.stores)
	return out
}

// Categories はカテゴリリストのスナップショットを返す
func (s *DirectoryService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// StoreName は店舗IDを表示名に解決する。未知のIDは "Other"
func (s *DirectoryService) StoreName(storeID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.stores {
		if st.StoreID == storeID {
			return st.StoreName
		}
	}
	return models.UnknownStoreName
}
