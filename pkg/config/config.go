package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "DEBATE"

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Storage StorageConfig
	Debate  DebateConfig
	Auth    AuthConfig
	Gemini  GeminiConfig
	NATS    NATSConfig `mapstructure:"nats"`
	Log     LogConfig
	Client  ClientConfig
}

type ServerConfig struct {
	Address         string
	JoinURL         string        `mapstructure:"join_url"` // QR code 的加入連結，可用 {room_key} 指定代碼位置
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

// StorageConfig 選擇玩家與歷史紀錄的儲存方式：memory 或 postgres
type StorageConfig struct {
	Driver string
}

type DebateConfig struct {
	RoundsPerPlayer int           `mapstructure:"rounds_per_player"`
	MinTopicLength  int           `mapstructure:"min_topic_length"`
	MaxTopicLength  int           `mapstructure:"max_topic_length"`
	KeyLength       int           `mapstructure:"key_length"`
	TerminalTTL     time.Duration `mapstructure:"terminal_ttl"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	ReapInterval    time.Duration `mapstructure:"reap_interval"`
	AbortPenalty    int           `mapstructure:"abort_penalty"`
	JudgeTimeout    time.Duration `mapstructure:"judge_timeout"`
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	Required bool
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string
	Timeout time.Duration
}

// NATSConfig URL 為空時不發布事件
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type ClientConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Player       string
	Token        string
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration
}

// New 建立帶有預設值與環境變數設定的 viper 實例
// 環境變數以 DEBATE_ 為前綴，例如 DEBATE_DB_HOST
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.join_url", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "debate")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")

	v.SetDefault("storage.driver", "memory")

	v.SetDefault("debate.rounds_per_player", 5)
	v.SetDefault("debate.min_topic_length", 10)
	v.SetDefault("debate.max_topic_length", 300)
	v.SetDefault("debate.key_length", 6)
	v.SetDefault("debate.terminal_ttl", time.Hour)
	v.SetDefault("debate.idle_ttl", 24*time.Hour)
	v.SetDefault("debate.reap_interval", time.Minute)
	v.SetDefault("debate.abort_penalty", 30)
	v.SetDefault("debate.judge_timeout", 45*time.Second)

	v.SetDefault("auth.secret", "change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.required", false)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout", 30*time.Second)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "debate.rooms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.player", "")
	v.SetDefault("client.token", "")
	v.SetDefault("client.poll_interval", 2*time.Second)
	v.SetDefault("client.timeout", time.Minute)
}

// Load 讀取設定檔（若存在）並解析成 Config
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q (want memory or postgres)", c.Storage.Driver)
	}
	if c.Debate.RoundsPerPlayer < 1 {
		return fmt.Errorf("debate.rounds_per_player must be positive: %d", c.Debate.RoundsPerPlayer)
	}
	if c.Debate.MinTopicLength > c.Debate.MaxTopicLength {
		return errors.New("debate.min_topic_length must not exceed debate.max_topic_length")
	}
	if c.Auth.Required && c.Auth.Secret == "" {
		return errors.New("auth.secret is required when auth.required is set")
	}
	return nil
}
