package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 MAHJONG_RULE_RONPOLICY=multiple
const EnvPrefix = "MAHJONG"

var (
	ErrInvalidRonPolicy = errors.New("invalid ron policy")
	ErrInvalidLength    = errors.New("invalid match length")
	ErrInvalidConfig    = errors.New("invalid config")
)

type Config struct {
	AppName string      `mapstructure:"appName"`
	Log     LogConf     `mapstructure:"log"`
	Rule    RuleConf    `mapstructure:"rule"`
	History HistoryConf `mapstructure:"history"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// RuleConf 对局规则
type RuleConf struct {
	RedFives      bool          `mapstructure:"redFives"`
	InitialPoints int           `mapstructure:"initialPoints"`
	Ron           string        `mapstructure:"ronPolicy"` // head-bump | multiple | triple-abort
	Length        string        `mapstructure:"length"`    // east | south
	Kuikae        bool          `mapstructure:"kuikae"`
	ReplyTimeout  time.Duration `mapstructure:"replyTimeout"`
}

// HistoryConf 牌谱缓存，MaxCost 单位为字节
type HistoryConf struct {
	MaxCost int64         `mapstructure:"maxCost"`
	TTL     time.Duration `mapstructure:"ttl"`
	Dir     string        `mapstructure:"dir"` // 非空时模拟器把每局牌谱写成 YAML 文件
}

var defaults = map[string]any{
	"appName":            "mahjong",
	"log.level":          "info",
	"rule.redFives":      true,
	"rule.initialPoints": 25000,
	"rule.ronPolicy":     "head-bump",
	"rule.length":        "east",
	"rule.kuikae":        true,
	"rule.replyTimeout":  30 * time.Second,
	"history.maxCost":    int64(1 << 26),
	"history.ttl":        time.Duration(0),
	"history.dir":        "",
}

// Default 不读文件与环境变量时的配置
func Default() *Config {
	v := newViper()
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Errorf("解析默认配置出错, err:%v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadDotEnv 配置文件同目录下的 .env 存在时载入，已有的环境变量优先
func loadDotEnv(configFile string) error {
	envFile := filepath.Join(filepath.Dir(configFile), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

func read(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load 读取 YAML 配置文件；configFile 为空时只使用默认值与环境变量
func Load(configFile string) (*Config, error) {
	v := newViper()
	if configFile != "" {
		if err := loadDotEnv(configFile); err != nil {
			return nil, err
		}
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件出错: %w", err)
		}
	} else if err := loadDotEnv(filepath.Join(".", "config.yaml")); err != nil {
		return nil, err
	}
	return read(v)
}

// Watch 读取配置文件并在文件变化时重新解析，解析失败的变更不会回调
func Watch(configFile string, onChange func(*Config)) (*Config, error) {
	if _, err := os.Stat(configFile); err != nil {
		return nil, err
	}
	v := newViper()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件出错: %w", err)
	}
	cfg, err := read(v)
	if err != nil {
		return nil, err
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		next, err := read(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "解析配置文件出错 %s %s, err:%v\n", in.Op, in.Name, err)
			return
		}
		onChange(next)
	})
	v.WatchConfig()
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Rule.RonPolicy(); err != nil {
		return err
	}
	if _, err := c.Rule.MatchLength(); err != nil {
		return err
	}
	if c.Rule.InitialPoints <= 0 {
		return fmt.Errorf("%w: rule.initialPoints must be positive, got %d", ErrInvalidConfig, c.Rule.InitialPoints)
	}
	if c.History.MaxCost <= 0 {
		return fmt.Errorf("%w: history.maxCost must be positive, got %d", ErrInvalidConfig, c.History.MaxCost)
	}
	return nil
}

// RonPolicy 规范化后的多家荣和处理方式
func (r RuleConf) RonPolicy() (string, error) {
	p := strings.ToLower(strings.TrimSpace(r.Ron))
	switch p {
	case "head-bump", "multiple", "triple-abort":
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRonPolicy, r.Ron)
}

// MatchLength 东风战或半庄战
func (r RuleConf) MatchLength() (string, error) {
	l := strings.ToLower(strings.TrimSpace(r.Length))
	switch l {
	case "east", "south":
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLength, r.Length)
}
