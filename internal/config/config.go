package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`    // 服务器配置
	Postgres  PostgresConfig            `mapstructure:"postgres"`  // PostgreSQL配置
	Auth      AuthConfig                `mapstructure:"auth"`      // 认证与注册配置
	Cache     CacheConfig               `mapstructure:"cache"`     // 外部数据缓存配置
	Upstreams map[string]UpstreamConfig `mapstructure:"upstreams"` // 上游数据源独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// AuthConfig JWT签发与管理员引导配置
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`         // HS256签名密钥
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`   // access token有效期
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`  // refresh token有效期
	BootstrapToken  string        `mapstructure:"bootstrap_token"`    // 管理员引导口令（为空则禁用引导接口）
	BootstrapEmail  string        `mapstructure:"bootstrap_email"`    // 引导管理员邮箱
	BootstrapPass   string        `mapstructure:"bootstrap_password"` // 引导管理员密码
	SecureCookie    bool          `mapstructure:"secure_cookie"`      // refresh cookie是否仅HTTPS
}

// CacheConfig 外部体育数据缓存配置
type CacheConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"` // 缓存有效期（分钟）
}

// UpstreamConfig 单个上游数据源的独立配置
type UpstreamConfig struct {
	BaseURL   string `mapstructure:"base_url"`   // API基础地址
	Timeout   int    `mapstructure:"timeout"`    // 请求超时（秒）
	AuthToken string `mapstructure:"auth_token"` // 认证Token
	Proxy     string `mapstructure:"proxy"`      // 代理地址
	TeamID    int64  `mapstructure:"team_id"`    // 阿森纳队伍ID静态覆盖（footballdata专用，0表示走搜索）
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if cfg.Cache.TTLMinutes <= 0 {
		cfg.Cache.TTLMinutes = 10
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if fd, ok := cfg.Upstreams["footballdata"]; ok {
		if v := os.Getenv("FOOTBALL_DATA_API_KEY"); v != "" {
			fd.AuthToken = v
		}
		if v := os.Getenv("FOOTBALL_DATA_PROXY"); v != "" {
			fd.Proxy = v
		}
		cfg.Upstreams["footballdata"] = fd
	}
	if sdb, ok := cfg.Upstreams["sportsdb"]; ok {
		if v := os.Getenv("SPORTS_DB_API_KEY"); v != "" {
			sdb.AuthToken = v
		}
		cfg.Upstreams["sportsdb"] = sdb
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ADMIN_BOOTSTRAP_TOKEN"); v != "" {
		cfg.Auth.BootstrapToken = v
	}
	if v := os.Getenv("ADMIN_BOOTSTRAP_EMAIL"); v != "" {
		cfg.Auth.BootstrapEmail = v
	}
	if v := os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"); v != "" {
		cfg.Auth.BootstrapPass = v
	}
}
