package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// JWT 配置
	JwtSecret           string `mapstructure:"jwt_secret"`
	JwtExpiresIn        string `mapstructure:"jwt_expires_in"`
	JwtRefreshExpiresIn string `mapstructure:"jwt_refresh_expires_in"`

	// 缓存提供者配置
	CacheType          string `mapstructure:"cache_type"`
	CacheRedisAddr     string `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string `mapstructure:"cache_redis_password"`
	CacheRedisDB       int    `mapstructure:"cache_redis_db"`
	CacheListTTL       int    `mapstructure:"cache_list_ttl"`
	CacheAnalysisTTL   int    `mapstructure:"cache_analysis_ttl"`

	// 限流配置
	RateLimitApiRPS     float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst   int           `mapstructure:"rate_limit_api_burst"`
	RateLimitMediaRPS   float64       `mapstructure:"rate_limit_media_rps"`
	RateLimitMediaBurst int           `mapstructure:"rate_limit_media_burst"`
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	// 上传配置
	UploadMaxSizeMB int    `mapstructure:"upload_max_size_mb"`
	UploadFolder    string `mapstructure:"upload_folder"`

	// 托管媒体服务配置（Cloudinary 兼容）
	MediaCloudName    string `mapstructure:"media_cloud_name"`
	MediaAPIKey       string `mapstructure:"media_api_key"`
	MediaAPISecret    string `mapstructure:"media_api_secret"`
	MediaUploadPreset string `mapstructure:"media_upload_preset"`

	// 视觉模型配置（OpenAI 兼容 API，缺省时 AI 问答走本地模拟）
	VisionAPIKey  string `mapstructure:"vision_api_key"`
	VisionBaseURL string `mapstructure:"vision_base_url"`
	VisionModel   string `mapstructure:"vision_model"`

	// 自托管回退存储配置
	StorageType           string `mapstructure:"storage_type"`
	StorageLocalPath      string `mapstructure:"storage_local_path"`
	StorageMinioEndpoint  string `mapstructure:"storage_minio_endpoint"`
	StorageMinioAccessKey string `mapstructure:"storage_minio_access_key"`
	StorageMinioSecretKey string `mapstructure:"storage_minio_secret_key"`
	StorageMinioBucket    string `mapstructure:"storage_minio_bucket"`
	StorageMinioUseSSL    bool   `mapstructure:"storage_minio_use_ssl"`
	StorageWebdavURL      string `mapstructure:"storage_webdav_url"`
	StorageWebdavUsername string `mapstructure:"storage_webdav_username"`
	StorageWebdavPassword string `mapstructure:"storage_webdav_password"`
	StorageWebdavRoot     string `mapstructure:"storage_webdav_root"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	} else {
		fmt.Fprintln(os.Stderr, "Info: Loaded configuration from .env file")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 8080)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")

	// 数据库配置默认值
	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "media-studio")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 100)
	viper.SetDefault("db_max_idle_conns", 25)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	// JWT 配置默认值
	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("jwt_expires_in", "30m")
	viper.SetDefault("jwt_refresh_expires_in", "720h")

	// 缓存提供者配置默认值
	viper.SetDefault("cache_type", "ristretto")
	viper.SetDefault("cache_redis_addr", "localhost:6379")
	viper.SetDefault("cache_redis_password", "")
	viper.SetDefault("cache_redis_db", 0)
	viper.SetDefault("cache_list_ttl", 300)
	viper.SetDefault("cache_analysis_ttl", 3600)

	// 限流配置默认值
	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_media_rps", 100.0)
	viper.SetDefault("rate_limit_media_burst", 200)
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_expire_time", "10m")

	// 上传配置默认值
	viper.SetDefault("upload_max_size_mb", 100)
	viper.SetDefault("upload_folder", "media-uploads")

	// 托管媒体服务默认值
	viper.SetDefault("media_cloud_name", "")
	viper.SetDefault("media_api_key", "")
	viper.SetDefault("media_api_secret", "")
	viper.SetDefault("media_upload_preset", "")

	// 视觉模型默认值
	viper.SetDefault("vision_api_key", "")
	viper.SetDefault("vision_base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("vision_model", "llama-3.2-90b-vision-preview")

	// 回退存储默认值
	viper.SetDefault("storage_type", "local")
	viper.SetDefault("storage_local_path", "./data/media")
	viper.SetDefault("storage_minio_endpoint", "")
	viper.SetDefault("storage_minio_bucket", "media-studio")
	viper.SetDefault("storage_webdav_url", "")
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL，用于生成回退媒体链接
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return c.ServerDomain
	}
	host := c.ServerHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}

// UploadMaxBytes 上传大小上限（字节）
func (c *Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxSizeMB) << 20
}
