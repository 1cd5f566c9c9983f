package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Elastic  ElasticConfig  `mapstructure:"elastic"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Graph    GraphConfig    `mapstructure:"graph"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	LLM      LLMConfig      `mapstructure:"llm"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Frontend FrontendConfig `mapstructure:"frontend"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// ElasticConfig Elastic配置，未启用时帖子不建索引、搜索不可用
type ElasticConfig struct {
	Enable    bool   `mapstructure:"enable"`
	Address   string `mapstructure:"address"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	PostIndex string `mapstructure:"post_index"`
}

// MinIOConfig MinIO配置，用于缩略图镜像
type MinIOConfig struct {
	Enable         bool   `mapstructure:"enable"`
	Endpoint       string `mapstructure:"endpoint"`
	PublicEndpoint string `mapstructure:"public_endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	Bucket         string `mapstructure:"bucket"`
	UseSSL         bool   `mapstructure:"use_ssl"`
	ThumbnailWidth int    `mapstructure:"thumbnail_width"`
}

type KafkaConfig struct {
	Brokers       []string       `mapstructure:"brokers"`
	Sasl          SaslConfig     `mapstructure:"sasl"`
	Consumer      ConsumerConfig `mapstructure:"consumer"`
	InsightsTopic string         `mapstructure:"insights_topic"`
	InsightsGroup string         `mapstructure:"insights_group"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// GraphConfig Instagram Graph API 配置
type GraphConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Version    string        `mapstructure:"version"`
	MediaLimit int           `mapstructure:"media_limit"`
	Timeout    int           `mapstructure:"timeout"`
	Breaker    BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	FailureThreshold uint32 `mapstructure:"failure_threshold"`
	OpenTimeout      int    `mapstructure:"open_timeout"`
}

// OAuthConfig Facebook 登录配置
type OAuthConfig struct {
	AppID       string   `mapstructure:"app_id"`
	AppSecret   string   `mapstructure:"app_secret"`
	CallbackURL string   `mapstructure:"callback_url"`
	Scopes      []string `mapstructure:"scopes"`
}

type LLMConfig struct {
	URL         string           `mapstructure:"url"`
	Model       string           `mapstructure:"model"`
	ApiKey      string           `mapstructure:"api_key"`
	Temperature float64          `mapstructure:"temperature"`
	MaxTokens   int              `mapstructure:"max_tokens"`
	Concurrency int64            `mapstructure:"concurrency"`
	PromptsPath PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	System       string `mapstructure:"system"`
	ContentIdeas string `mapstructure:"content_ideas"`
	Hashtags     string `mapstructure:"hashtags"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// SecurityConfig 存储的 access token 使用该密钥加密
type SecurityConfig struct {
	TokenSealKey string `mapstructure:"token_seal_key"`
}

type FrontendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type JobsConfig struct {
	InsightsCron string `mapstructure:"insights_cron"`
}

// LogConfig 日志配置，Logstash 地址为空时只输出到 stdout
type LogConfig struct {
	Level           string `mapstructure:"level"`
	LogstashAddress string `mapstructure:"logstash_address"`
	LogstashIndex   string `mapstructure:"logstash_index"`
	LogstashToken   string `mapstructure:"logstash_token"`
}
