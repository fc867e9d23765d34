package utils

import (
	"log"
	"os"

	qconfig "github.com/qiniu/x/config"
)

var (
	DefaultConf Config
)

func InitConf(configFilePath string) {
	err := qconfig.LoadFile(&DefaultConf, configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file, error %v", err)
	}
}

// MongoConfig mongo 数据库配置。
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// ClerkConfig 身份服务（Clerk）配置。
// FrontendApi 为Clerk实例的公开URL，PublishableKey 为前端可见的key。
// SecretKey 用于校验session token，WebhookSecret 用于校验clerk-webhook签名。
type ClerkConfig struct {
	FrontendApi    string `json:"frontend_api"`
	PublishableKey string `json:"publishable_key"`
	SecretKey      string `json:"secret_key"`
	WebhookSecret  string `json:"webhook_secret"`
}

// RTCConfig LiveKit视频房间服务配置。
type RTCConfig struct {
	Host      string `json:"host"`
	ApiKey    string `json:"api_key"`
	ApiSecret string `json:"api_secret"`
	// RoomTokenExpireSecond room token的有效时间。
	RoomTokenExpireSecond int `json:"room_token_expire_s"`
}

// Config 后端配置。
type Config struct {
	// debug等级，为1时输出info/warn/error日志，为0时除以上外还输出debug日志
	DebugLevel int    `json:"debug_level"`
	ListenAddr string `json:"listen_addr"`
	// 后端部署地址
	RequestUrlHost string `json:"request_url_host"`
	// 前端页面host
	FrontendUrlHost string       `json:"frontend_url_host"`
	Mongo           *MongoConfig `json:"mongo"`
	Clerk           *ClerkConfig `json:"clerk"`
	RTC             *RTCConfig   `json:"rtc"`
	// JwtKey 本地联调用。设置后允许HS256签发的dev token通过鉴权。
	JwtKey string `json:"jwt_key"`
}

// NewSample 返回样例配置。
func NewSample() *Config {
	return &Config{
		DebugLevel: 0,
		ListenAddr: ":8080",
		Mongo: &MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "hire_cube_test",
		},
		Clerk: &ClerkConfig{
			FrontendApi:    os.Getenv("CLERK_FRONTEND_API"),
			PublishableKey: os.Getenv("CLERK_PUBLISHABLE_KEY"),
			SecretKey:      os.Getenv("CLERK_SECRET_KEY"),
			WebhookSecret:  os.Getenv("CLERK_WEBHOOK_SECRET"),
		},
		RTC: &RTCConfig{
			Host:                  os.Getenv("LIVEKIT_HOST"),
			ApiKey:                os.Getenv("LIVEKIT_API_KEY"),
			ApiSecret:             os.Getenv("LIVEKIT_API_SECRET"),
			RoomTokenExpireSecond: 60,
		},
	}
}
