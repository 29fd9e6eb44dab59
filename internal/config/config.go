package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix          = "SOCIALHUB"
	defaultHTTPAddress = "0.0.0.0:8080"
	defaultLogLevel    = "info"
	defaultBlobRoot    = "./uploads"
	defaultRedisAddr   = "127.0.0.1:6379"
	defaultKafkaTopic  = "social-events"
)

// AppConfig 服务运行期配置
type AppConfig struct {
	HTTPAddress string
	MySQLDSN    string
	LogLevel    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTAccessSecret  string
	JWTRefreshSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	KafkaBrokers []string
	KafkaTopic   string

	BlobRoot string

	// 发帖是否要求先加入社区
	PostRequireMembership bool
}

// NewViper 返回已配置默认值与环境变量绑定的 viper 实例
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults 设置默认值并开启 SOCIALHUB_* 环境变量绑定
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.address", defaultHTTPAddress)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("redis.addr", defaultRedisAddr)
	v.SetDefault("redis.db", 0)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("kafka.topic", defaultKafkaTopic)
	v.SetDefault("blob.root", defaultBlobRoot)
	v.SetDefault("post.require_membership", true)
}

// Load 解析配置并做启动期校验
func Load(v *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress: v.GetString("http.address"),
		MySQLDSN:    v.GetString("mysql.dsn"),
		LogLevel:    v.GetString("log.level"),

		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),

		JWTAccessSecret:  v.GetString("jwt.access_secret"),
		JWTRefreshSecret: v.GetString("jwt.refresh_secret"),

		SMTPHost:     v.GetString("smtp.host"),
		SMTPPort:     v.GetInt("smtp.port"),
		SMTPUsername: v.GetString("smtp.username"),
		SMTPPassword: v.GetString("smtp.password"),
		SMTPFrom:     v.GetString("smtp.from"),

		KafkaBrokers: v.GetStringSlice("kafka.brokers"),
		KafkaTopic:   v.GetString("kafka.topic"),

		BlobRoot: v.GetString("blob.root"),

		PostRequireMembership: v.GetBool("post.require_membership"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.MySQLDSN) == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	if strings.TrimSpace(c.JWTAccessSecret) == "" {
		return fmt.Errorf("jwt.access_secret is required")
	}
	if strings.TrimSpace(c.JWTRefreshSecret) == "" {
		return fmt.Errorf("jwt.refresh_secret is required")
	}
	if strings.TrimSpace(c.BlobRoot) == "" {
		return fmt.Errorf("blob.root is required")
	}
	return nil
}
