package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 用于管理应用配置。配置只在启动时构建一次，之后以 *Config 显式传递给各组件。

const (
	EnvPrefix = "TINY_BLOG"

	insecureDefaultSecret = "tiny_blog_secret"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Upload    UploadConfig    `mapstructure:"upload"`
	S3        S3Config        `mapstructure:"s3"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	location *time.Location
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Mode           string `mapstructure:"mode"`
	TrustedProxies string `mapstructure:"trusted_proxies"` // 逗号、分号或空白分隔，为空时不信任任何代理
}

type AppConfig struct {
	SiteName string `mapstructure:"site_name"`
	Timezone string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`      // 优先使用，如 postgres://... mysql://... sqlite://...
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSL      bool   `mapstructure:"ssl"`
}

type SessionConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
	SecureCookie    bool   `mapstructure:"secure_cookie"`
}

type AuthConfig struct {
	AllowSignup bool `mapstructure:"allow_signup"`
}

type UploadConfig struct {
	Backend      string `mapstructure:"backend"` // local, s3
	Path         string `mapstructure:"path"`
	URLPrefix    string `mapstructure:"url_prefix"`
	MaxSizeMB    int    `mapstructure:"max_size_mb"`
	CacheControl string `mapstructure:"cache_control"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Prefix          string `mapstructure:"prefix"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	AuthRPS   float64 `mapstructure:"auth_rps"`
	AuthBurst int     `mapstructure:"auth_burst"`
}

// Location 返回文章创建时间使用的固定时区，时区无效时退回 UTC
func (c *Config) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	if loc, err := time.LoadLocation(c.App.Timezone); err == nil && c.App.Timezone != "" {
		return loc
	}
	return time.UTC
}

// SessionTTL 返回登录令牌有效期
func (c *Config) SessionTTL() time.Duration {
	hours := c.Session.ExpirationHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// MaxUploadBytes 返回上传大小上限（字节）
func (c *Config) MaxUploadBytes() int64 {
	mb := c.Upload.MaxSizeMB
	if mb <= 0 {
		mb = 10
	}
	return int64(mb) * 1024 * 1024
}

// IsRelease 是否运行在生产模式
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}

// Load 读取配置文件、.env 与环境变量并返回配置快照。
func Load(customConfigDir string) (*Config, error) {
	loadDotEnv()

	v, err := initViper(customConfigDir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}

	if err := enforceSecretSafety(&cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("无效的时区 %q: %w", cfg.App.Timezone, err)
	}
	cfg.location = loc

	log.Println("✅ 配置加载成功")
	return &cfg, nil
}

// loadDotEnv 读取工作目录下的 .env；文件不存在时忽略。
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("✅ 已加载 .env 文件")
	}
}

func initViper(customConfigDir string) (*viper.Viper, error) {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}

	v.AddConfigPath(customConfigDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.trusted_proxies", "")
	v.SetDefault("app.site_name", "Tiny Blog")
	v.SetDefault("app.timezone", "Asia/Tokyo")
	v.SetDefault("database.url", "")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/tiny_blog.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "tiny_blog")
	v.SetDefault("database.ssl", false)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.expiration_hours", 24)
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("auth.allow_signup", true)
	v.SetDefault("upload.backend", "local")
	v.SetDefault("upload.path", "static/img")
	v.SetDefault("upload.url_prefix", "/static/img/")
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("upload.cache_control", "public, max-age=31536000, immutable")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.prefix", "img/")
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("s3.use_path_style", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tiny_blog")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.auth_rps", 1.0)
	v.SetDefault("rate_limit.auth_burst", 10)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
	}

	// 规则：环境变量以 TINY_BLOG_ 开头，server.port 对应 TINY_BLOG_SERVER_PORT
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 兼容部署平台常见的变量名
	_ = v.BindEnv("session.secret", EnvPrefix+"_SESSION_SECRET", "SECRET_KEY")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	return v, nil
}

func enforceSecretSafety(cfg *Config) error {
	if cfg.IsRelease() {
		if cfg.Session.Secret == "" || cfg.Session.Secret == insecureDefaultSecret {
			return errors.New("[安全严重错误] 生产模式(release)下必须设置安全的会话密钥！\n请设置环境变量 SECRET_KEY 或 TINY_BLOG_SESSION_SECRET")
		}
		return nil
	}

	if cfg.Session.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("生成随机会话密钥失败: %w", err)
		}
		log.Println("⚠️ [开发模式警告] 未设置会话密钥，已生成随机密钥，重启后所有登录状态将失效")
		cfg.Session.Secret = secret
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
