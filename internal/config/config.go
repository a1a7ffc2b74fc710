package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Sources   SourcesConfig   `yaml:"sources"`
	Number    NumberConfig    `yaml:"number"`
	Translate TranslateConfig `yaml:"translate"`
	Convert   ConvertConfig   `yaml:"convert"`
	Naming    NamingConfig    `yaml:"naming"`
	Network   NetworkConfig   `yaml:"network"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SourcesConfig holds provider ordering and per-source settings.
type SourcesConfig struct {
	// Priority is the ordered list of source names to query.
	Priority []string `yaml:"priority"`
	// CookieDir is the directory holding per-source cookie files
	// (<source>.json). Files older than the staleness window are ignored.
	CookieDir string `yaml:"cookie_dir"`
	// MoreStoryline asks providers that support it to fetch an extended
	// outline.
	MoreStoryline bool `yaml:"more_storyline"`
	// AnonymousFill substitutes a placeholder actor when a result has none.
	AnonymousFill bool `yaml:"anonymous_fill"`
}

// NumberConfig holds identifier extraction settings.
type NumberConfig struct {
	// CustomPatterns are user-supplied regular expressions tried before the
	// built-in extraction rules. A malformed pattern is skipped with a
	// warning.
	CustomPatterns []string `yaml:"custom_patterns"`
	// Uppercase forces the resolved identifier to upper case.
	Uppercase bool `yaml:"uppercase"`
	// UncensoredPrefixes extends the built-in uncensored classification.
	UncensoredPrefixes []string `yaml:"uncensored_prefixes"`
}

// TranslateConfig holds translation settings.
type TranslateConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Engine         string   `yaml:"engine"` // google-free | deeplx
	Fields         []string `yaml:"fields"`
	TargetLanguage string   `yaml:"target_language"`
	ServiceSite    string   `yaml:"service_site"`
	Key            string   `yaml:"key"`
}

// ConvertConfig holds script-conversion settings.
type ConvertConfig struct {
	// Mode selects the canonical script for alias tables and conversion:
	// zh_cn, zh_tw or jp.
	Mode   string   `yaml:"mode"`
	Fields []string `yaml:"fields"`
	// MappingDir is the directory holding the declarative alias tables
	// (mapping_actor.xml, mapping_info.xml).
	MappingDir string `yaml:"mapping_dir"`
}

// NamingConfig holds the naming template.
type NamingConfig struct {
	// Rule is a +-delimited sequence of literal fragments and field names,
	// e.g. "number+'-'+title".
	Rule string `yaml:"rule"`
}

// NetworkConfig holds shared transport settings for provider requests.
type NetworkConfig struct {
	// Proxy is an optional proxy URL (http, https or socks5 scheme).
	Proxy string `yaml:"proxy"`
	// VerifyTLS disables certificate verification when false.
	VerifyTLS bool `yaml:"verify_tls"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "avresolve.db",
		},
		Sources: SourcesConfig{
			Priority:  nil, // nil means the full known source list
			CookieDir: "cookies",
		},
		Number: NumberConfig{
			Uppercase: true,
		},
		Translate: TranslateConfig{
			Engine:         "google-free",
			Fields:         []string{"title", "outline"},
			TargetLanguage: "zh_cn",
			ServiceSite:    "translate.google.cn",
		},
		Convert: ConvertConfig{
			Mode:       "zh_cn",
			Fields:     []string{"title", "outline", "series", "studio", "tag"},
			MappingDir: "mapping",
		},
		Naming: NamingConfig{
			Rule: "number+'-'+title",
		},
		Network: NetworkConfig{
			VerifyTLS: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("AV_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("AV_SOURCES"); v != "" {
		c.Sources.Priority = splitList(v)
	}
	if v := os.Getenv("AV_COOKIE_DIR"); v != "" {
		c.Sources.CookieDir = v
	}
	if v := os.Getenv("AV_PROXY"); v != "" {
		c.Network.Proxy = v
	}
	if v := os.Getenv("AV_TRANSLATE_ENGINE"); v != "" {
		c.Translate.Engine = v
	}
	if v := os.Getenv("AV_TRANSLATE_KEY"); v != "" {
		c.Translate.Key = v
	}
	if v := os.Getenv("AV_TARGET_LANGUAGE"); v != "" {
		c.Translate.TargetLanguage = v
	}
	if v := os.Getenv("AV_MAPPING_DIR"); v != "" {
		c.Convert.MappingDir = v
	}
	if v := os.Getenv("AV_NAMING_RULE"); v != "" {
		c.Naming.Rule = v
	}
	if v := os.Getenv("AV_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AV_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	switch c.Convert.Mode {
	case "zh_cn", "zh_tw", "jp":
	default:
		return fmt.Errorf("invalid convert mode: %q", c.Convert.Mode)
	}
	switch c.Translate.Engine {
	case "google-free", "deeplx", "":
	default:
		return fmt.Errorf("invalid translate engine: %q", c.Translate.Engine)
	}
	if c.Naming.Rule == "" {
		return fmt.Errorf("naming rule is required")
	}
	return nil
}

// splitList splits a comma-separated env value into trimmed entries.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
