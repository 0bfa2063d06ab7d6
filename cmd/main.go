package main

import (
	"context"
	"fanjoy-backend/config"
	"fanjoy-backend/internal/api/checkout"
	"fanjoy-backend/internal/api/contact"
	"fanjoy-backend/internal/api/order"
	"fanjoy-backend/internal/api/payout"
	"fanjoy-backend/internal/api/product"
	"fanjoy-backend/internal/api/user"
	"fanjoy-backend/internal/api/webhook"
	"fanjoy-backend/internal/middleware"
	fsrepo "fanjoy-backend/internal/repository/firestore"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fanjoy-backend/internal/storage"

	"cloud.google.com/go/firestore"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	// 在 main 函数开始处添加
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置支付渠道密钥
	stripe.Key = config.AppConfig.StripeSecretKey

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("order_status", util.ValidateOrderStatus)
	}

	// 连接 Firestore
	ctx := context.Background()
	var opts []option.ClientOption
	if config.AppConfig.FirestoreCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.AppConfig.FirestoreCredentialsFile))
	}
	fsClient, err := firestore.NewClient(ctx, config.AppConfig.FirestoreProjectID, opts...)
	if err != nil {
		util.Logger.Fatal("连接 Firestore 失败", zap.Error(err))
	}
	defer fsClient.Close()
	util.Logger.Info("Firestore 连接成功")

	// 初始化存储后端
	if config.AppConfig.StorageBackend == "local" {
		ensureUploadsFolder()
	}
	store, err := storage.NewFromConfig()
	if err != nil {
		util.Logger.Fatal("初始化存储后端失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	orderRepo := fsrepo.NewOrderRepository(fsClient)
	payoutRepo := fsrepo.NewPayoutRepository(fsClient)
	userRepo := fsrepo.NewUserRepository(fsClient)
	productRepo := fsrepo.NewProductRepository(fsClient)

	emailService := service.NewEmailService()
	orderService := service.NewOrderService(orderRepo)
	exportService := service.NewExportService()
	userService := service.NewUserService(userRepo)
	checkoutService := service.NewCheckoutService(userRepo, productRepo)
	payoutService := service.NewPayoutService(payoutRepo, userRepo, emailService)
	statsService := service.NewStatsService(orderRepo, productRepo)
	webhookService := service.NewWebhookService(
		orderService,
		payoutRepo,
		userRepo,
		productRepo,
		emailService,
		config.AppConfig.StripeWebhookSecret,
	)

	webhookHandler := webhook.NewWebhookHandler(webhookService)
	orderHandler := order.NewOrderHandler(orderService, exportService, emailService)
	contactHandler := contact.NewContactHandler(emailService)
	checkoutHandler := checkout.NewCheckoutHandler(checkoutService)
	payoutHandler := payout.NewPayoutHandler(payoutService)
	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, statsService)
	productHandler := product.NewProductHandler(userService, productRepo, store)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		"Stripe-Signature",
		"x-creator-id",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Content-Disposition",
		"Access-Control-Allow-Origin",
	}

	// 先应用 CORS 中间件
	r.Use(cors.New(corsConfig))

	// 本地存储时配置静态文件服务和对应的 CORS 处理
	if config.AppConfig.StorageBackend == "local" {
		r.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
				c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
				c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

				if c.Request.Method == "OPTIONS" {
					c.AbortWithStatus(200)
					return
				}
			}
			c.Next()
		})
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 支付事件入口，签名在服务层校验
		api.POST("/webhooks/payments", webhookHandler.HandleStripeWebhook)

		// 订单相关路由
		api.GET("/orders/export", orderHandler.ExportOrders)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.PATCH("/orders/:id", orderHandler.UpdateOrder)

		// 结账和客服表单
		api.POST("/checkout", checkoutHandler.CreateCheckoutSession)
		api.POST("/contact", contactHandler.SubmitContactForm)

		// 创作者账户
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.POST("/refresh-token", authHandler.RefreshToken)
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/printify", profileHandler.ConnectPrintify)
			authorized.POST("/profile/stripe", profileHandler.ConnectStripe)
			authorized.GET("/stats", profileHandler.GetStats)

			// 提现
			authorized.POST("/payouts", payoutHandler.CreatePayout)
			authorized.GET("/payouts", payoutHandler.ListPayouts)

			// 商品目录
			authorized.GET("/printify/blueprints", productHandler.GetBlueprints)
			authorized.GET("/printify/blueprints/:blueprintId/print-providers", productHandler.GetPrintProviders)
			authorized.GET("/printify/blueprints/:blueprintId/print-providers/:printProviderId/variants", productHandler.GetVariants)
			authorized.POST("/products", productHandler.CreateProduct)
			authorized.GET("/products", productHandler.ListProducts)
			authorized.GET("/products/:id", productHandler.GetProduct)
			authorized.PUT("/products/:id", productHandler.UpdateProduct)
			authorized.DELETE("/products/:id", productHandler.DeleteProduct)
			authorized.POST("/products/:id/publish", productHandler.PublishProduct)
			authorized.POST("/products/:id/unpublish", productHandler.UnpublishProduct)
			authorized.POST("/uploads/design", productHandler.UploadDesignImage)
		}
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}
