// Package config は CLI の設定を読み込みます。
// 優先順位はデフォルト値 → 設定ファイル → .env → 環境変数なのだ。
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/gemini-design-kit/pkg/adapters"
	"github.com/shouni/gemini-design-kit/pkg/archive"
	"github.com/spf13/viper"
)

// EnvPrefix は環境変数のプレフィックスです。
const EnvPrefix = "DESIGN_KIT"

// Config は CLI 全体の設定です。
type Config struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
}

type GeminiConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	ImageModel     string        `mapstructure:"image_model"`
	TextModel      string        `mapstructure:"text_model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// RedisConfig はアーカイブと参照画像キャッシュの保存先です。Addr が空ならメモリに保持し、キャッシュは使わないのだ。
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load は設定を読み込みます。configFile が空なら設定ファイルは読みません。
func Load(configFile string) (*Config, error) {
	// .env は無くてもよい
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.image_model", adapters.DefaultImageModel)
	v.SetDefault("gemini.text_model", adapters.DefaultTextModel)
	v.SetDefault("gemini.request_timeout", "120s")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", archive.DefaultRedisKey)
	v.SetDefault("redis.cache_ttl", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("output.dir", "output")
}

// Validate は生成に必要な値がそろっているかを確認します。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Gemini.RequestTimeout <= 0 {
		return fmt.Errorf("gemini.request_timeout must be positive: %s", c.Gemini.RequestTimeout)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel は log.level を slog.Level に変換します。
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
