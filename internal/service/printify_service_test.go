package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPrintifyGetBlueprints 测试模板列表请求和鉴权头
func TestPrintifyGetBlueprints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blueprints.json", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":5,"title":"T-Shirt","brand":"Gildan"}]`))
	}))
	defer server.Close()

	service := NewPrintifyService("test-key", "shop_1")
	service.baseURL = server.URL

	blueprints, err := service.GetBlueprints()
	assert.NoError(t, err)
	assert.Len(t, blueprints, 1)
	assert.Equal(t, 5, blueprints[0].ID)
	assert.Equal(t, "T-Shirt", blueprints[0].Title)
}

// TestPrintifyGetProduct 测试商品路径包含商店ID
func TestPrintifyGetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shops/shop_1/products/prod_1.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"prod_1","title":"Creator Tee","blueprint_id":5,"visible":true}`))
	}))
	defer server.Close()

	service := NewPrintifyService("test-key", "shop_1")
	service.baseURL = server.URL

	product, err := service.GetProduct("prod_1")
	assert.NoError(t, err)
	assert.Equal(t, "prod_1", product.ID)
	assert.Equal(t, 5, product.BlueprintID)
	assert.True(t, product.Visible)
}

// TestPrintifyErrorStatus 测试非 2xx 响应返回错误
func TestPrintifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	service := NewPrintifyService("bad-key", "shop_1")
	service.baseURL = server.URL

	_, err := service.GetBlueprints()
	assert.Error(t, err)
}
