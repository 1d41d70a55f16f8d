// Package config loads layered configuration: built-in defaults, then
// <base>/config.yaml, then the nearest repo-level .ecokitchen/config.yaml,
// then ECOKITCHEN_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/validation"
)

// FileName is the config file looked up in the base and repo directories.
const FileName = "config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ECOKITCHEN_"

// Config holds application configuration.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Web       WebConfig       `koanf:"web"`
	Logging   LoggingConfig   `koanf:"logging"`

	// DisabledTools lists MCP tool names to exclude from registration.
	// Lists from the global and repo files are merged.
	DisabledTools []string `koanf:"disabled_tools"`
}

// CatalogConfig selects the recipe dataset.
type CatalogConfig struct {
	// Source is a CSV path, sqlite:// path, *.db path or s3://bucket/key.
	// Relative paths resolve against the working directory.
	Source string `koanf:"source"`

	S3Region    string `koanf:"s3_region"`
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3PathStyle bool   `koanf:"s3_path_style"`
}

type RecommendConfig struct {
	Limit int `koanf:"limit" validate:"min=1,max=100"`
}

type WebConfig struct {
	Bind               string        `koanf:"bind" validate:"required"`
	Port               int           `koanf:"port" validate:"min=1,max=65535"`
	SessionIdleTimeout time.Duration `koanf:"session_idle_timeout" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:   "recipes.csv",
			S3Region: "us-east-1",
		},
		Recommend: RecommendConfig{
			Limit: 10,
		},
		Web: WebConfig{
			Bind:               "127.0.0.1",
			Port:               8642,
			SessionIdleTimeout: 12 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps ECOKITCHEN_* variables (prefix stripped, lowercased) to
// config keys. Unlisted variables are ignored.
var envMappings = map[string]string{
	"catalog_source":           "catalog.source",
	"catalog_s3_region":        "catalog.s3_region",
	"catalog_s3_endpoint":      "catalog.s3_endpoint",
	"catalog_s3_path_style":    "catalog.s3_path_style",
	"recommend_limit":          "recommend.limit",
	"web_bind":                 "web.bind",
	"web_port":                 "web.port",
	"web_session_idle_timeout": "web.session_idle_timeout",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"disabled_tools":           "disabled_tools",
}

func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envMappings[key]
}

// Load loads configuration from baseDir/config.yaml and the environment.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.ecokitchen.
func Load(baseDir string) (*Config, error) {
	return LoadWithRepo(baseDir, "")
}

// LoadWithRepo is Load plus the nearest .ecokitchen/config.yaml found by
// walking upward from startDir. Repo values win over global ones; the
// disabled_tools lists are merged. An empty startDir skips the repo layer.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	var disabled []string

	if err := loadFile(k, filepath.Join(globalDir, FileName)); err != nil {
		return nil, err
	}
	disabled = mergeStringSlice(disabled, k.Strings("disabled_tools"))

	if startDir != "" {
		if repoPath := FindRepoConfig(startDir); repoPath != "" {
			if err := loadFile(k, repoPath); err != nil {
				return nil, err
			}
			disabled = mergeStringSlice(disabled, k.Strings("disabled_tools"))
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if raw, ok := k.Get("disabled_tools").(string); ok {
		disabled = mergeStringSlice(disabled, strings.Split(raw, ","))
	}
	if len(disabled) == 0 {
		k.Delete("disabled_tools")
	} else if err := k.Set("disabled_tools", disabled); err != nil {
		return nil, fmt.Errorf("failed to set disabled_tools: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFile layers path onto k. A missing file is not an error.
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat config file %s: %w", path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .ecokitchen/config.yaml. Returns "" if none exists.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".ecokitchen", FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// S3Options returns the catalog S3 client options. Credentials come from
// the default AWS chain.
func (c *Config) S3Options() catalog.S3Options {
	return catalog.S3Options{
		Region:    c.Catalog.S3Region,
		Endpoint:  c.Catalog.S3Endpoint,
		PathStyle: c.Catalog.S3PathStyle,
	}
}

// Addr returns the web listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Web.Bind, c.Web.Port)
}

// DefaultBaseDir returns ~/.ecokitchen.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ecokitchen"), nil
}
