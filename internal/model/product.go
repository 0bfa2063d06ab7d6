package model

import "time"

// Product 本地镜像的商品记录，主键为 Printify 分配的商品ID。
// 商品目录的权威数据在 Printify，镜像只保留结账定价所需的字段。
type Product struct {
	ID              string    `json:"id" firestore:"id"`
	CreatorID       string    `json:"creatorId" firestore:"creatorId"`
	Title           string    `json:"title" firestore:"title"`
	Description     string    `json:"description" firestore:"description"`
	Price           int64     `json:"price" firestore:"price"` // 以最小货币单位计（美分）
	BlueprintID     int       `json:"blueprintId" firestore:"blueprintId"`
	PrintProviderID int       `json:"printProviderId" firestore:"printProviderId"`
	Images          []string  `json:"images,omitempty" firestore:"images,omitempty"`
	Visible         bool      `json:"visible" firestore:"visible"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Blueprint Printify 的商品模板（产品类型）
type Blueprint struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Images      []string `json:"images"`
}

// PrintProvider 印刷供应商
type PrintProvider struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Location struct {
		Country  string `json:"country"`
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		City     string `json:"city"`
		Region   string `json:"region"`
		Zip      string `json:"zip"`
	} `json:"location"`
}

// Variant 商品规格（颜色、尺码等）
type Variant struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	SKU         string `json:"sku"`
	Enabled     bool   `json:"enabled"`
	IsDefault   bool   `json:"is_default"`
	Price       int64  `json:"price"`
	IsAvailable bool   `json:"is_available"`
	Options     struct {
		Color string `json:"color"`
		Size  string `json:"size"`
	} `json:"options"`
}

// PrintifyImage 商品图片
type PrintifyImage struct {
	ID         int    `json:"id"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
}

// PrintifyVariant Printify 商品下的具体规格
type PrintifyVariant struct {
	ID        int   `json:"id"`
	Price     int64 `json:"price"`
	Cost      int64 `json:"cost"`
	IsEnabled bool  `json:"is_enabled"`
	IsDefault bool  `json:"is_default"`
}

// PrintifyProduct Printify 商店中的商品
type PrintifyProduct struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	BlueprintID     int               `json:"blueprint_id"`
	PrintProviderID int               `json:"print_provider_id"`
	Variants        []PrintifyVariant `json:"variants"`
	Images          []PrintifyImage   `json:"images"`
	Visible         bool              `json:"visible"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}
