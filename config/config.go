package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BodyLimit    int64      `mapstructure:"body_limit"` // 普通 JSON 请求体上限（字节）
	CORS         CORSConfig `mapstructure:"cors"`
	MetricsToken string     `mapstructure:"metrics_token"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（仅用于限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 身份提供方 Token 校验配置
type AuthConfig struct {
	JWTSecret       string   `mapstructure:"jwt_secret"`
	JWTAudience     string   `mapstructure:"jwt_audience"`
	BootstrapAdmins []string `mapstructure:"bootstrap_admins"` // 启动时写入管理员白名单的用户 ID
}

// StorageConfig 凭证图片对象存储（S3 兼容，如 Cloudflare R2）
type StorageConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	AccessKeySecret string        `mapstructure:"access_key_secret"`
	UsePathStyle    bool          `mapstructure:"use_path_style"`
	SignedURLTTL    time.Duration `mapstructure:"signed_url_ttl"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// WorkflowConfig 工作流参数
type WorkflowConfig struct {
	JoinCodeLength   int           `mapstructure:"join_code_length"`
	JoinCodeAttempts int           `mapstructure:"join_code_attempts"`
	StoreTimeout     time.Duration `mapstructure:"store_timeout"`
	RateLimit        int           `mapstructure:"rate_limit"`        // 写操作窗口内最大次数
	RateLimitWindow  time.Duration `mapstructure:"rate_limit_window"` // 写操作限流窗口
}

// SweeperConfig 孤儿凭证清理任务
type SweeperConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	MinAge   time.Duration `mapstructure:"min_age"` // 仅清理早于该时长的对象，避免误删刚上传尚未提交的凭证
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.metrics_token", "")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "clan_bingo")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// 只有已知的 key 才会在 Unmarshal 时读取环境变量，敏感项也需要声明默认值
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_audience", "authenticated")
	v.SetDefault("auth.bootstrap_admins", []string{})

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.access_key_secret", "")
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.bucket", "claims")
	v.SetDefault("storage.signed_url_ttl", "30m")
	v.SetDefault("storage.max_upload_bytes", 10<<20)

	v.SetDefault("workflow.join_code_length", 6)
	v.SetDefault("workflow.join_code_attempts", 5)
	v.SetDefault("workflow.store_timeout", "5s")
	v.SetDefault("workflow.rate_limit", 30)
	v.SetDefault("workflow.rate_limit_window", "1m")

	v.SetDefault("sweeper.enabled", false)
	v.SetDefault("sweeper.interval", "6h")
	v.SetDefault("sweeper.min_age", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("BINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Workflow.JoinCodeLength < 4 || c.Workflow.JoinCodeLength > 16 {
		return fmt.Errorf("配置校验失败: workflow.join_code_length 必须在 4-16 之间")
	}
	if c.Workflow.JoinCodeAttempts <= 0 {
		return fmt.Errorf("配置校验失败: workflow.join_code_attempts 必须大于 0")
	}
	if c.Workflow.StoreTimeout <= 0 {
		return fmt.Errorf("配置校验失败: workflow.store_timeout 必须大于 0")
	}
	if c.Storage.SignedURLTTL <= 0 {
		return fmt.Errorf("配置校验失败: storage.signed_url_ttl 必须大于 0")
	}
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		return fmt.Errorf("配置校验失败: sweeper.interval 必须大于 0")
	}
	return nil
}
