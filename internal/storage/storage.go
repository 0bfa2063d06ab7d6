package storage

import (
	"fmt"
	"mime/multipart"

	"fanjoy-backend/config"
)

// Storage 设计图上传后端
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

// NewFromConfig 根据配置选择存储后端
func NewFromConfig() (Storage, error) {
	switch config.AppConfig.StorageBackend {
	case "s3":
		return NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
	case "gcs":
		return NewGCSClient(config.AppConfig.GCSProjectID, config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
	case "local":
		return NewLocalStorage(config.AppConfig.LocalStoragePath)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", config.AppConfig.StorageBackend)
	}
}
