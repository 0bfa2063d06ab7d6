package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fanjoy-backend/internal/model"
)

const printifyAPIURL = "https://api.printify.com/v1"

// PrintifyService Printify 开放接口的类型化客户端。
// 目录数据的权威方在 Printify，这里只做透传。
type PrintifyService struct {
	apiKey     string
	shopID     string
	baseURL    string
	httpClient *http.Client
}

func NewPrintifyService(apiKey, shopID string) *PrintifyService {
	return &PrintifyService{
		apiKey:  apiKey,
		shopID:  shopID,
		baseURL: printifyAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *PrintifyService) doRequest(method, endpoint string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求 Printify 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Printify API error: %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("解析 Printify 响应失败: %w", err)
		}
	}
	return nil
}

// GetBlueprints 获取全部商品模板
func (s *PrintifyService) GetBlueprints() ([]model.Blueprint, error) {
	var blueprints []model.Blueprint
	if err := s.doRequest(http.MethodGet, "/blueprints.json", nil, &blueprints); err != nil {
		return nil, err
	}
	return blueprints, nil
}

// GetPrintProviders 获取指定模板的印刷供应商
func (s *PrintifyService) GetPrintProviders(blueprintID int) ([]model.PrintProvider, error) {
	var providers []model.PrintProvider
	endpoint := fmt.Sprintf("/blueprints/%d/print_providers.json", blueprintID)
	if err := s.doRequest(http.MethodGet, endpoint, nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// GetVariants 获取指定模板和供应商下的全部规格
func (s *PrintifyService) GetVariants(blueprintID, printProviderID int) ([]model.Variant, error) {
	var variants []model.Variant
	endpoint := fmt.Sprintf("/blueprints/%d/print_providers/%d/variants.json", blueprintID, printProviderID)
	if err := s.doRequest(http.MethodGet, endpoint, nil, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

// CreateProduct 在商店中创建商品
func (s *PrintifyService) CreateProduct(product map[string]interface{}) (*model.PrintifyProduct, error) {
	var created model.PrintifyProduct
	endpoint := fmt.Sprintf("/shops/%s/products.json", s.shopID)
	if err := s.doRequest(http.MethodPost, endpoint, product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetProducts 获取商店全部商品
func (s *PrintifyService) GetProducts() ([]model.PrintifyProduct, error) {
	var products []model.PrintifyProduct
	endpoint := fmt.Sprintf("/shops/%s/products.json", s.shopID)
	if err := s.doRequest(http.MethodGet, endpoint, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct 获取单个商品
func (s *PrintifyService) GetProduct(productID string) (*model.PrintifyProduct, error) {
	var product model.PrintifyProduct
	endpoint := fmt.Sprintf("/shops/%s/products/%s.json", s.shopID, productID)
	if err := s.doRequest(http.MethodGet, endpoint, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct 更新商品
func (s *PrintifyService) UpdateProduct(productID string, product map[string]interface{}) (*model.PrintifyProduct, error) {
	var updated model.PrintifyProduct
	endpoint := fmt.Sprintf("/shops/%s/products/%s.json", s.shopID, productID)
	if err := s.doRequest(http.MethodPut, endpoint, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct 删除商品
func (s *PrintifyService) DeleteProduct(productID string) error {
	endpoint := fmt.Sprintf("/shops/%s/products/%s.json", s.shopID, productID)
	return s.doRequest(http.MethodDelete, endpoint, nil, nil)
}

// PublishProduct 上架商品
func (s *PrintifyService) PublishProduct(productID string) error {
	endpoint := fmt.Sprintf("/shops/%s/products/%s/publish.json", s.shopID, productID)
	return s.doRequest(http.MethodPost, endpoint, nil, nil)
}

// UnpublishProduct 下架商品
func (s *PrintifyService) UnpublishProduct(productID string) error {
	endpoint := fmt.Sprintf("/shops/%s/products/%s/unpublish.json", s.shopID, productID)
	return s.doRequest(http.MethodPost, endpoint, nil, nil)
}
