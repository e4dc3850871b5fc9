package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024

// Load reads .env (if present), the YAML file named by CONFIG_FILE (if set),
// then environment variables, which take precedence. SERVER_PORT maps to
// server.port and MAIL_PROJECT_RECIPIENTS to mail.project_recipients.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadWithFile(os.Getenv("CONFIG_FILE"))
}

func LoadWithFile(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// sections lists the top-level keys environment variables may set. Anything
// else (PATH, HOME, MAIL) is ignored.
var sections = map[string]bool{
	"server":    true,
	"store":     true,
	"database":  true,
	"mongo":     true,
	"rabbitmq":  true,
	"mail":      true,
	"log":       true,
	"stats":     true,
	"ratelimit": true,
}

// envKey splits on the first underscore only: section.field_name. It returns
// "" for variables outside a known section, which koanf skips.
func envKey(s string) string {
	lower := strings.ToLower(s)
	section, field, ok := strings.Cut(lower, "_")
	if !ok || field == "" || !sections[section] {
		return ""
	}
	return section + "." + field
}
