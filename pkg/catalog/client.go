package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"retail-ops-api/pkg/models"
)

// Client JSON over HTTP でリモートカタログサービスを呼び出す Service 実装
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient は新しいカタログクライアントを作成する
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SearchProducts は /products/search を呼び出す
func (c *Client) SearchProducts(ctx context.Context, spec models.QuerySpec) (models.SearchResult, error) {
	params := url.Values{}
	params.Set("query", spec.Text)
	params.Set("storeId", strings.Join(spec.StoreIDs, ","))
	params.Set("category", strings.Join(spec.Categories, ","))
	params.Set("minPrice", strconv.FormatFloat(spec.MinPrice, 'f', -1, 64))
	if spec.HasMax {
		params.Set("maxPrice", strconv.FormatFloat(spec.MaxPrice, 'f', -1, 64))
	}
	params.Set("page", strconv.Itoa(spec.Page))
	params.Set("limit", strconv.Itoa(spec.PageSize))

	var result models.SearchResult
	if err := c.getJSON(ctx, "/products/search?"+params.Encode(), &result); err != nil {
		return models.SearchResult{}, &models.RetrievalError{Op: "SearchProducts", Err: err}
	}
	if result.Results == nil {
		result.Results = []models.Product{}
	}
	return result, nil
}

// GetAllStores は /store を呼び出す
func (c *Client) GetAllStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := c.getJSON(ctx, "/store", &stores); err != nil {
		return nil, &models.RetrievalError{Op: "GetAllStores", Err: err}
	}
	return stores, nil
}

// GetAllCategories は /products/categories を呼び出す
func (c *Client) GetAllCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, &models.RetrievalError{Op: "GetAllCategories", Err: err}
	}
	return categories, nil
}

// UpdateProduct は PUT /products/edit/{id} を呼び出す
func (c *Client) UpdateProduct(ctx context.Context, productID string, fields models.ProductUpdate) (models.Product, error) {
	var updated models.Product
	if err := c.doJSON(ctx, http.MethodPut, "/products/edit/"+url.PathEscape(productID), fields, &updated); err != nil {
		return models.Product{}, &models.SubmissionError{Op: "UpdateProduct", Err: err}
	}
	return updated, nil
}

// RecordSale は POST /sales/record を呼び出す
func (c *Client) RecordSale(ctx context.Context, sale models.Sale) (models.Sale, error) {
	var recorded models.Sale
	if err := c.doJSON(ctx, http.MethodPost, "/sales/record", sale, &recorded); err != nil {
		return models.Sale{}, &models.SubmissionError{Op: "RecordSale", Err: err}
	}
	return recorded, nil
}

// GetInventoryReport は /dashboard/inventory を呼び出す
func (c *Client) GetInventoryReport(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := c.getJSON(ctx, "/dashboard/inventory", &records); err != nil {
		return nil, &models.RetrievalError{Op: "GetInventoryReport", Err: err}
	}
	return records, nil
}

// GetSalesReport は /dashboard/sales を呼び出す
func (c *Client) GetSalesReport(ctx context.Context, q models.SalesReportQuery) ([]models.SalesReportEntry, error) {
	params := url.Values{}
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}
	if q.StoreID != "" {
		params.Set("storeId", q.StoreID)
	}
	if q.TimeFrame != "" {
		params.Set("timeFrame", q.TimeFrame)
	}

	var entries []models.SalesReportEntry
	if err := c.getJSON(ctx, "/dashboard/sales?"+params.Encode(), &entries); err != nil {
		return nil, &models.RetrievalError{Op: "GetSalesReport", Err: err}
	}
	return entries, nil
}

// GetWeeklySalesReport は /dashboard/weekly-sales を呼び出す
func (c *Client) GetWeeklySalesReport(ctx context.Context) ([]models.SalesReportEntry, error) {
	var entries []models.SalesReportEntry
	if err := c.getJSON(ctx, "/dashboard/weekly-sales", &entries); err != nil {
		return nil, &models.RetrievalError{Op: "GetWeeklySalesReport", Err: err}
	}
	return entries, nil
}

// UploadPricingFeed は POST /products/upload に multipart でフィードを転送する
func (c *Client) UploadPricingFeed(ctx context.Context, filename string, file io.Reader) (models.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("csvFile", filename)
	if err != nil {
		return models.UploadResult{}, &models.SubmissionError{Op: "UploadPricingFeed", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.UploadResult{}, &models.SubmissionError{Op: "UploadPricingFeed", Err: err}
	}
	if err := mw.Close(); err != nil {
		return models.UploadResult{}, &models.SubmissionError{Op: "UploadPricingFeed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/products/upload", &body)
	if err != nil {
		return models.UploadResult{}, &models.SubmissionError{Op: "UploadPricingFeed", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result models.UploadResult
	if err := c.do(req, &result); err != nil {
		return models.UploadResult{}, &models.SubmissionError{Op: "UploadPricingFeed", Err: err}
	}
	return result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog base URL is empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// 異常系のレスポンスは長くても先頭だけあれば診断に足りる
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}
