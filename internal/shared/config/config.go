package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultCategories is the allow-set applied when allowed_categories is not
// configured.
var DefaultCategories = []string{
	"AI",
	"Robotics",
	"Tech Startups",
	"Biotech & Health",
	"Enterprise",
	"Security",
	"Privacy",
}

type Config struct {
	BotToken          string   `koanf:"bot_token"`
	ChatID            string   `koanf:"chat_id"`
	TelegramAPIURL    string   `koanf:"telegram_api_url"`
	FeedURL           string   `koanf:"feed_url"`
	AllowedCategories []string `koanf:"allowed_categories"`
	PollInterval      int      `koanf:"poll_interval"`
	RetryInterval     int      `koanf:"retry_interval"`
	SendDelay         int      `koanf:"send_delay"`
	HTTPTimeout       int      `koanf:"http_timeout"`
	HTTPPort          string   `koanf:"http_port"`
	AppEnv            AppEnv   `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("telegram_api_url") {
		k.Set("telegram_api_url", "https://api.telegram.org")
	}
	if !k.Exists("feed_url") {
		k.Set("feed_url", "https://techcrunch.com/feed/")
	}
	if !k.Exists("allowed_categories") {
		k.Set("allowed_categories", DefaultCategories)
	}
	if !k.Exists("poll_interval") {
		k.Set("poll_interval", 300)
	}
	if !k.Exists("retry_interval") {
		k.Set("retry_interval", 60)
	}
	if !k.Exists("send_delay") {
		k.Set("send_delay", 60)
	}
	if !k.Exists("http_timeout") {
		k.Set("http_timeout", 30)
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8000")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AllowedCategories from comma-separated string if it's a string
	if allowed := k.Get("allowed_categories"); allowed != nil {
		switch v := allowed.(type) {
		case string:
			cfg.AllowedCategories = ParseCategories(v)
		case []interface{}:
			cfg.AllowedCategories = lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
				s, ok := item.(string)
				if !ok {
					return "", false
				}
				s = strings.TrimSpace(s)
				return s, s != ""
			})
		}
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if cfg.ChatID == "" {
		return nil, errors.ErrMissingChatID
	}

	return &cfg, nil
}

// ParseCategories parses a comma-separated category string into a list,
// trimming whitespace and dropping empty entries
func ParseCategories(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}
