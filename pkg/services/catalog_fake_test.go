package services

import (
	"context"
	"io"
	"sync/atomic"

	"retail-ops-api/pkg/models"
)

// fakeCatalog はテスト用の catalog.Service 実装
// 必要なメソッドだけ関数フィールドで差し替える
type fakeCatalog struct {
	searchFn    func(ctx context.Context, spec models.QuerySpec) (models.SearchResult, error)
	storesFn    func(ctx context.Context) ([]models.Store, error)
	categsFn    func(ctx context.Context) ([]string, error)
	saleFn      func(ctx context.Context, sale models.Sale) (models.Sale, error)
	inventoryFn func(ctx context.Context) ([]models.InventoryRecord, error)
	salesRepFn  func(ctx context.Context, q models.SalesReportQuery) ([]models.SalesReportEntry, error)
	weeklyFn    func(ctx context.Context) ([]models.SalesReportEntry, error)

	searchCalls atomic.Int32
	storeCalls  atomic.Int32
	saleCalls   atomic.Int32
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, spec models.QuerySpec) (models.SearchResult, error) {
	f.searchCalls.Add(1)
	if f.searchFn != nil {
		return f.searchFn(ctx, spec)
	}
	return models.SearchResult{Results: []models.Product{}}, nil
}

func (f *fakeCatalog) GetAllStores(ctx context.Context) ([]models.Store, error) {
	f.storeCalls.Add(1)
	if f.storesFn != nil {
		return f.storesFn(ctx)
	}
	return nil, nil
}

func (f *fakeCatalog) GetAllCategories(ctx context.Context) ([]string, error) {
	if f.categsFn != nil {
		return f.categsFn(ctx)
	}
	return nil, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, productID string, fields models.ProductUpdate) (models.Product, error) {
	return models.Product{}, nil
}

func (f *fakeCatalog) RecordSale(ctx context.Context, sale models.Sale) (models.Sale, error) {
	f.saleCalls.Add(1)
	if f.saleFn != nil {
		return f.saleFn(ctx, sale)
	}
	return sale, nil
}

func (f *fakeCatalog) GetInventoryReport(ctx context.Context) ([]models.InventoryRecord, error) {
	if f.inventoryFn != nil {
		return f.inventoryFn(ctx)
	}
	return nil, nil
}

func (f *fakeCatalog) GetSalesReport(ctx context.Context, q models.SalesReportQuery) ([]models.SalesReportEntry, error) {
	if f.salesRepFn != nil {
		return f.salesRepFn(ctx, q)
	}
	return nil, nil
}

func (f *fakeCatalog) GetWeeklySalesReport(ctx context.Context) ([]models.SalesReportEntry, error) {
	if f.weeklyFn != nil {
		return f.weeklyFn(ctx)
	}
	return nil, nil
}

func (f *fakeCatalog) UploadPricingFeed(ctx context.Context, filename string, file io.Reader) (models.UploadResult, error) {
	return models.UploadResult{Success: true}, nil
}
