package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"retail-ops-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestSaleDraftTotalPriceTracksQuantityAndProduct(t *testing.T) {
	svc := NewSaleService(&fakeCatalog{}, time.Second)

	// 商品選択で単価をスナップショット、数量1がデフォルト
	svc.SelectProduct(models.Product{ProdID: "P001", Price: 19.99, StoreID: "S1"})
	assert.InDelta(t, 19.99, svc.TotalPrice(), 1e-9)

	svc.SetQuantity(3)
	assert.InDelta(t, 59.97, svc.TotalPrice(), 1e-9)

	// 別の商品を選ぶと単価が差し替わる
	svc.SelectProduct(models.Product{ProdID: "P002", Price: 5, StoreID: "S1"})
	assert.InDelta(t, 15, svc.TotalPrice(), 1e-9)
}

func TestSaleStoreAutoPopulatesFromProduct(t *testing.T) {
	svc := NewSaleService(&fakeCatalog{}, time.Second)

	// 店舗未選択なら商品の店舗で補完される
	svc.SelectProduct(models.Product{ProdID: "P001", Price: 10, StoreID: "S9"})
	assert.Equal(t, "S9", svc.Draft().StoreID)

	// 明示的な店舗変更は商品選択を破棄し、以後は補完されない
	svc.SetStore("S2")
	assert.Equal(t, "", svc.Draft().ProductID)

	svc.SelectProduct(models.Product{ProdID: "P003", Price: 10, StoreID: "S9"})
	assert.Equal(t, "S2", svc.Draft().StoreID, "explicit store choice must not be overridden")
}

func TestSaleValidationBlocksSubmission(t *testing.T) {
	fake := &fakeCatalog{}
	svc := NewSaleService(fake, time.Second)

	// 空の下書き：4ルールすべてが失敗し、フィールドごとに1つずつ
	_, err := svc.Record(context.Background(), models.SaleDraft{})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Equal(t, int32(0), fake.saleCalls.Load(), "validation failure must not issue a network call")

	cases := []struct {
		name  string
		draft models.SaleDraft
		field string
	}{
		{"missing store", models.SaleDraft{ProductID: "P1", Quantity: 1, Date: "2025-01-15", UnitPrice: 5}, "storeId"},
		{"missing product", models.SaleDraft{StoreID: "S1", Quantity: 1, Date: "2025-01-15", UnitPrice: 5}, "productId"},
		{"zero quantity", models.SaleDraft{StoreID: "S1", ProductID: "P1", Quantity: 0, Date: "2025-01-15", UnitPrice: 5}, "quantity"},
		{"negative quantity", models.SaleDraft{StoreID: "S1", ProductID: "P1", Quantity: -2, Date: "2025-01-15", UnitPrice: 5}, "quantity"},
		{"missing date", models.SaleDraft{StoreID: "S1", ProductID: "P1", Quantity: 1, UnitPrice: 5}, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), tc.draft)
			var verr *models.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, 1, "exactly one error per failing rule")
			assert.Equal(t, tc.field, verr.Fields[0].Field)
		})
	}
	assert.Equal(t, int32(0), fake.saleCalls.Load())
}

func TestSaleSubmitSendsDerivedTotalAndClearsDraft(t *testing.T) {
	var submitted models.Sale
	fake := &fakeCatalog{saleFn: func(_ context.Context, sale models.Sale) (models.Sale, error) {
		submitted = sale
		return sale, nil
	}}
	svc := NewSaleService(fake, time.Second)

	svc.SelectProduct(models.Product{ProdID: "P001", Price: 12.5, StoreID: "S1"})
	svc.SetQuantity(4)
	svc.SetDate("2025-03-10")

	displayed := svc.TotalPrice()
	sale, err := svc.Submit(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, displayed, submitted.TotalPrice, "payload total must match the last displayed total")
	assert.InDelta(t, 50, sale.TotalPrice, 1e-9)
	assert.Equal(t, "S1", submitted.StoreID)
	assert.Equal(t, "P001", submitted.ProductID)
	assert.Equal(t, 4, submitted.Quantity)

	// 成功したら下書きは破棄される
	assert.Equal(t, models.SaleDraft{}, svc.Draft())
}

func TestSaleSubmitFailurePreservesDraft(t *testing.T) {
	fake := &fakeCatalog{saleFn: func(_ context.Context, _ models.Sale) (models.Sale, error) {
		return models.Sale{}, &models.SubmissionError{Op: "RecordSale", Err: fmt.Errorf("upstream down")}
	}}
	svc := NewSaleService(fake, time.Second)

	svc.SelectProduct(models.Product{ProdID: "P001", Price: 12.5, StoreID: "S1"})
	svc.SetQuantity(2)
	svc.SetDate("2025-03-10")
	before := svc.Draft()

	_, err := svc.Submit(context.Background())

	var serr *models.SubmissionError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, before, svc.Draft(), "failed submission must preserve the draft for retry")

	// そのままリトライできる
	fake.saleFn = nil
	_, err = svc.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.SaleDraft{}, svc.Draft())
}

func TestRecordedTotalIsImmutableSnapshot(t *testing.T) {
	var submitted []models.Sale
	fake := &fakeCatalog{saleFn: func(_ context.Context, sale models.Sale) (models.Sale, error) {
		submitted = append(submitted, sale)
		return sale, nil
	}}
	svc := NewSaleService(fake, time.Second)

	product := models.Product{ProdID: "P001", Price: 10, StoreID: "S1"}
	svc.SelectProduct(product)
	svc.SetQuantity(2)
	svc.SetDate("2025-03-10")
	_, err := svc.Submit(context.Background())
	assert.NoError(t, err)

	// 後から商品価格が変わっても、記録済みの totalPrice には影響しない
	product.Price = 99
	svc.SelectProduct(product)
	svc.SetQuantity(2)
	svc.SetDate("2025-03-11")
	_, err = svc.Submit(context.Background())
	assert.NoError(t, err)

	assert.InDelta(t, 20, submitted[0].TotalPrice, 1e-9)
	assert.InDelta(t, 198, submitted[1].TotalPrice, 1e-9)
}
