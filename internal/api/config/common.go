package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 INSTAGRAPH_LLM_API_KEY 覆盖 llm.api_key
const EnvPrefix = "INSTAGRAPH"

// LoadConfig 从配置目录读取 config.yaml，并允许环境变量覆盖
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 所有键都需要有默认值，AutomaticEnv 才能在 Unmarshal 时生效
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.dsn", "root:root@tcp(127.0.0.1:3306)/instagraph?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("mongo.url", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "instagraph")

	v.SetDefault("elastic.enable", true)
	v.SetDefault("elastic.address", "http://127.0.0.1:9200")
	v.SetDefault("elastic.username", "")
	v.SetDefault("elastic.password", "")
	v.SetDefault("elastic.post_index", "instagraph-posts")

	v.SetDefault("minio.enable", false)
	v.SetDefault("minio.endpoint", "127.0.0.1:9000")
	v.SetDefault("minio.public_endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "instagraph-media")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.thumbnail_width", 640)

	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.sasl.enable", false)
	v.SetDefault("kafka.sasl.username", "")
	v.SetDefault("kafka.sasl.password", "")
	v.SetDefault("kafka.consumer.session_timeout", 30)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 300)
	v.SetDefault("kafka.insights_topic", "instagram-insights")
	v.SetDefault("kafka.insights_group", "instagraph-insights")

	v.SetDefault("graph.base_url", "https://graph.facebook.com")
	v.SetDefault("graph.version", "v19.0")
	v.SetDefault("graph.media_limit", 25)
	v.SetDefault("graph.timeout", 15)
	v.SetDefault("graph.breaker.failure_threshold", 5)
	v.SetDefault("graph.breaker.open_timeout", 60)

	v.SetDefault("oauth.app_id", "")
	v.SetDefault("oauth.app_secret", "")
	v.SetDefault("oauth.callback_url", "http://localhost:8080/api/auth/facebook/callback")
	v.SetDefault("oauth.scopes", []string{"email", "public_profile", "instagram_basic", "pages_read_engagement"})

	v.SetDefault("llm.url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.concurrency", 5)
	v.SetDefault("llm.prompts_path.system", "./prompts/system.txt")
	v.SetDefault("llm.prompts_path.content_ideas", "./prompts/content-ideas.txt")
	v.SetDefault("llm.prompts_path.hashtags", "./prompts/hashtags.txt")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "InstaGraph")
	v.SetDefault("jwt.expire_hours", 24*7)

	v.SetDefault("security.token_seal_key", "")

	v.SetDefault("frontend.base_url", "http://localhost:3000")

	v.SetDefault("jobs.insights_cron", "0 0 */6 * * *")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.logstash_address", "")
	v.SetDefault("log.logstash_index", "logstash-instagraph")
	v.SetDefault("log.logstash_token", "")
}
