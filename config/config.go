// Package config 从环境变量 (以及 .env 文件) 读取运行配置
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 目录存储后端
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config 服务运行配置
type Config struct {
	HTTPAddr      string
	Storage       string // file | postgres
	DirectoryPath string // Storage=file 时的 offices.json 路径

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string // 为空时草稿只保存在内存中
	RedisPass string
	RedisDB   int
	DraftTTL  time.Duration

	OSRMURL   string
	OSRMRate  float64 // 每秒请求数
	OSRMBurst int

	JWTSecret     string // 为空时不开放后台接口
	AdminUsername string
	AdminPassword string
}

// Load 先加载 .env (不存在则忽略), 再读取环境变量
func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		HTTPAddr:      getEnvOrDefault("HTTP_ADDR", ":8080"),
		Storage:       getEnvOrDefault("STORAGE", StorageFile),
		DirectoryPath: getEnvOrDefault("DIRECTORY_PATH", "offices.json"),

		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "navuser"),
		DBPassword: getEnvOrDefault("DB_PASSWORD", "navpassword"),
		DBName:     getEnvOrDefault("DB_NAME", "officenav"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		DraftTTL:  getEnvDuration("DRAFT_TTL", 0),

		OSRMURL:   getEnvOrDefault("OSRM_URL", "https://router.project-osrm.org"),
		OSRMRate:  getEnvFloat("OSRM_RATE", 1),
		OSRMBurst: getEnvInt("OSRM_BURST", 1),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// PostgresDSN gorm / lib/pq 通用的 key=value DSN
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// getEnvOrDefault 获取环境变量，如果不存在则返回默认值
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d >= 0 {
		return d
	}
	return defaultVal
}
