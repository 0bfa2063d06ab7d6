package product

import (
	"strconv"
	"time"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/repository/interfaces"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/storage"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler 商品目录接口。目录的权威数据在 Printify，
// 这里按创作者绑定的密钥透传，并把结账定价所需的字段镜像到本地。
type ProductHandler struct {
	userService service.UserServiceInterface
	productRepo interfaces.ProductRepository
	store       storage.Storage
}

func NewProductHandler(userService service.UserServiceInterface, productRepo interfaces.ProductRepository, store storage.Storage) *ProductHandler {
	return &ProductHandler{userService, productRepo, store}
}

// printifyFor 用创作者绑定的密钥构建 Printify 客户端
func (h *ProductHandler) printifyFor(c *gin.Context) (*service.PrintifyService, error) {
	creatorID := c.GetString("creator_id")

	user, err := h.userService.GetUserByUID(c.Request.Context(), creatorID)
	if err != nil {
		return nil, err
	}
	if user.PrintifyAPIKey == "" || user.PrintifyShopID == "" {
		return nil, errors.New(errors.ErrValidation, "Printify account not connected")
	}
	return service.NewPrintifyService(user.PrintifyAPIKey, user.PrintifyShopID), nil
}

// GetBlueprints 获取全部商品模板
func (h *ProductHandler) GetBlueprints(c *gin.Context) {
	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	blueprints, err := printify.GetBlueprints()
	if err != nil {
		util.Logger.Error("获取商品模板失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to fetch blueprints", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"blueprints": blueprints}, "")
}

// GetPrintProviders 获取指定模板的印刷供应商
func (h *ProductHandler) GetPrintProviders(c *gin.Context) {
	blueprintID, err := strconv.Atoi(c.Param("blueprintId"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的模板ID", err))
		return
	}

	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	providers, err := printify.GetPrintProviders(blueprintID)
	if err != nil {
		util.Logger.Error("获取印刷供应商失败", zap.Error(err), zap.Int("blueprint_id", blueprintID))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to fetch print providers", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"printProviders": providers}, "")
}

// GetVariants 获取指定模板和供应商下的全部规格
func (h *ProductHandler) GetVariants(c *gin.Context) {
	blueprintID, err := strconv.Atoi(c.Param("blueprintId"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的模板ID", err))
		return
	}
	printProviderID, err := strconv.Atoi(c.Param("printProviderId"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的供应商ID", err))
		return
	}

	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	variants, err := printify.GetVariants(blueprintID, printProviderID)
	if err != nil {
		util.Logger.Error("获取商品规格失败", zap.Error(err), zap.Int("blueprint_id", blueprintID))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to fetch variants", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"variants": variants}, "")
}

type createProductRequest struct {
	Title           string                   `json:"title" binding:"required"`
	Description     string                   `json:"description"`
	BlueprintID     int                      `json:"blueprintId" binding:"required"`
	PrintProviderID int                      `json:"printProviderId" binding:"required"`
	Price           int64                    `json:"price" binding:"required,min=1"`
	Variants        []map[string]interface{} `json:"variants" binding:"required"`
	PrintAreas      []map[string]interface{} `json:"printAreas" binding:"required"`
}

// CreateProduct 在 Printify 创建商品并写入本地镜像
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("创建商品失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	created, err := printify.CreateProduct(map[string]interface{}{
		"title":             req.Title,
		"description":       req.Description,
		"blueprint_id":      req.BlueprintID,
		"print_provider_id": req.PrintProviderID,
		"variants":          req.Variants,
		"print_areas":       req.PrintAreas,
	})
	if err != nil {
		util.Logger.Error("在 Printify 创建商品失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to create product", err))
		return
	}

	now := time.Now()
	mirror := &model.Product{
		ID:              created.ID,
		CreatorID:       c.GetString("creator_id"),
		Title:           created.Title,
		Description:     created.Description,
		Price:           req.Price,
		BlueprintID:     created.BlueprintID,
		PrintProviderID: created.PrintProviderID,
		Images:          imageURLs(created.Images),
		Visible:         created.Visible,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.productRepo.Save(c.Request.Context(), mirror); err != nil {
		// 镜像写入失败不回滚 Printify 侧的商品，记录后由下次更新补齐
		util.Logger.Error("写入商品镜像失败", zap.Error(err), zap.String("product_id", created.ID))
	}

	errors.HandleSuccess(c, gin.H{"product": created}, "商品创建成功")
}

// ListProducts 获取商店全部商品
func (h *ProductHandler) ListProducts(c *gin.Context) {
	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	products, err := printify.GetProducts()
	if err != nil {
		util.Logger.Error("获取商品列表失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to fetch products", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"products": products}, "")
}

// GetProduct 获取单个商品
func (h *ProductHandler) GetProduct(c *gin.Context) {
	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	product, err := printify.GetProduct(c.Param("id"))
	if err != nil {
		util.Logger.Error("获取商品失败", zap.Error(err), zap.String("product_id", c.Param("id")))
		errors.HandleError(c, errors.Wrap(errors.ErrProductNotFound, "Product not found", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "")
}

type updateProductRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Price       int64                    `json:"price"`
	Variants    []map[string]interface{} `json:"variants"`
}

// UpdateProduct 更新商品并同步本地镜像
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	productID := c.Param("id")
	payload := map[string]interface{}{}
	if req.Title != "" {
		payload["title"] = req.Title
	}
	if req.Description != "" {
		payload["description"] = req.Description
	}
	if len(req.Variants) > 0 {
		payload["variants"] = req.Variants
	}

	updated, err := printify.UpdateProduct(productID, payload)
	if err != nil {
		util.Logger.Error("更新商品失败", zap.Error(err), zap.String("product_id", productID))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to update product", err))
		return
	}

	mirror, err := h.productRepo.FindByID(c.Request.Context(), productID)
	if err != nil {
		util.Logger.Error("读取商品镜像失败", zap.Error(err), zap.String("product_id", productID))
	}
	if mirror == nil {
		mirror = &model.Product{
			ID:        productID,
			CreatorID: c.GetString("creator_id"),
			CreatedAt: time.Now(),
		}
	}
	mirror.Title = updated.Title
	mirror.Description = updated.Description
	mirror.BlueprintID = updated.BlueprintID
	mirror.PrintProviderID = updated.PrintProviderID
	mirror.Images = imageURLs(updated.Images)
	mirror.Visible = updated.Visible
	if req.Price > 0 {
		mirror.Price = req.Price
	}
	mirror.UpdatedAt = time.Now()
	if err := h.productRepo.Save(c.Request.Context(), mirror); err != nil {
		util.Logger.Error("写入商品镜像失败", zap.Error(err), zap.String("product_id", productID))
	}

	errors.HandleSuccess(c, gin.H{"product": updated}, "商品更新成功")
}

// DeleteProduct 删除商品和本地镜像
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	productID := c.Param("id")
	if err := printify.DeleteProduct(productID); err != nil {
		util.Logger.Error("删除商品失败", zap.Error(err), zap.String("product_id", productID))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to delete product", err))
		return
	}

	if err := h.productRepo.Delete(c.Request.Context(), productID); err != nil {
		util.Logger.Error("删除商品镜像失败", zap.Error(err), zap.String("product_id", productID))
	}

	errors.HandleSuccess(c, nil, "商品删除成功")
}

// PublishProduct 上架商品
func (h *ProductHandler) PublishProduct(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishProduct 下架商品
func (h *ProductHandler) UnpublishProduct(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *ProductHandler) setPublished(c *gin.Context, visible bool) {
	printify, err := h.printifyFor(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	productID := c.Param("id")
	if visible {
		err = printify.PublishProduct(productID)
	} else {
		err = printify.UnpublishProduct(productID)
	}
	if err != nil {
		util.Logger.Error("变更商品上架状态失败",
			zap.Error(err),
			zap.String("product_id", productID),
			zap.Bool("visible", visible))
		errors.HandleError(c, errors.Wrap(errors.ErrProvider, "Failed to update product visibility", err))
		return
	}

	if mirror, repoErr := h.productRepo.FindByID(c.Request.Context(), productID); repoErr == nil && mirror != nil {
		mirror.Visible = visible
		mirror.UpdatedAt = time.Now()
		if saveErr := h.productRepo.Save(c.Request.Context(), mirror); saveErr != nil {
			util.Logger.Error("写入商品镜像失败", zap.Error(saveErr), zap.String("product_id", productID))
		}
	}

	errors.HandleSuccess(c, nil, "商品状态更新成功")
}

// UploadDesignImage 上传设计图
func (h *ProductHandler) UploadDesignImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少图片文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	url, err := h.store.UploadFile(file, "designs/"+filename)
	if err != nil {
		util.Logger.Error("上传设计图失败", zap.Error(err), zap.String("filename", file.Filename))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传设计图失败", err))
		return
	}

	util.Logger.Info("设计图上传成功", zap.String("url", url))
	errors.HandleSuccess(c, gin.H{"url": url}, "上传成功")
}

func imageURLs(images []model.PrintifyImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	return urls
}
