package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	StripeSecretKey          string
	StripeWebhookSecret      string
	PlatformFeePercent       int // 平台抽成百分比，创作者拿剩余部分
	JWTSecret                string
	LogLevel                 string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	SMTPFromEmail            string
	SupportEmail             string
	FrontendURL              string
	BackendURL               string
	StorageBackend           string // local / s3 / gcs
	S3Region                 string
	S3Bucket                 string
	GCSProjectID             string
	GCSBucketName            string
	GCSCredentialsFile       string
	LocalStoragePath         string
	Debug                    bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	err := godotenv.Load()
	if err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	// 从环境变量中读取配置
	AppConfig = Config{
		FirestoreProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentialsFile: getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		StripeSecretKey:          getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:      getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PlatformFeePercent:       getEnvAsInt("PLATFORM_FEE_PERCENT", 20),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		SMTPHost:                 getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:                 getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:            getEnv("SMTP_FROM_EMAIL", "noreply@fanjoy.com"),
		SupportEmail:             getEnv("SUPPORT_EMAIL", "support@fanjoy.com"),
		FrontendURL:              getEnv("FRONTEND_URL", "http://localhost:3000"),
		BackendURL:               getEnv("BACKEND_URL", "http://localhost:8080"),
		StorageBackend:           getEnv("STORAGE_BACKEND", "local"),
		S3Region:                 getEnv("S3_REGION", ""),
		S3Bucket:                 getEnv("S3_BUCKET", ""),
		GCSProjectID:             getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:            getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile:       getEnv("GCS_CREDENTIALS_FILE", ""),
		LocalStoragePath:         getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		Debug:                    getEnvAsBool("DEBUG", false),
	}

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

// getEnv 从环境变量中读取字符串，不存在时返回默认值
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt 从环境变量中读取整数
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool 从环境变量中读取布尔值
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
