package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains bind address and runtime directory configuration.
type Server struct {
	Bind   string `toml:"bind"`
	LogDir string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Pipeline contains segmentation and concept-pipeline tuning.
type Pipeline struct {
	BlockMaxWords          int     `toml:"block_max_words"`
	SoftLimitRatio         float64 `toml:"soft_limit_ratio"`
	MaxWorkers             int     `toml:"max_workers"`
	DefaultNumConcepts     int     `toml:"default_num_concepts"`
	RecommendationsEnabled bool    `toml:"recommendations_enabled"`
}

// LLMProvider holds process-level defaults for one text-generation provider.
// Per-request service configurations override these field by field.
type LLMProvider struct {
	APIKey     string `toml:"api_key"`
	Endpoint   string `toml:"endpoint"`
	APIVersion string `toml:"api_version"`
}

// LLM contains shared connection settings plus per-provider defaults.
type LLM struct {
	TimeoutSeconds int         `toml:"timeout_seconds"`
	Azure          LLMProvider `toml:"azure"`
	Google         LLMProvider `toml:"google"`
}

// Config encapsulates all configuration values for reelsmith.
type Config struct {
	Server   Server   `toml:"server"`
	Logging  Logging  `toml:"logging"`
	Pipeline Pipeline `toml:"pipeline"`
	LLM      LLM      `toml:"llm"`
}

// Provider returns the configured defaults for the named provider, if known.
func (c *Config) Provider(name string) (LLMProvider, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "azure":
		return c.LLM.Azure, true
	case "google":
		return c.LLM.Google, true
	default:
		return LLMProvider{}, false
	}
}

// LockPath returns the daemon singleton lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Server.LogDir, "reelsmithd.lock")
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelsmith/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnvConfigPath names the environment variable consulted when no explicit
// config path is given.
const EnvConfigPath = "REELSMITH_CONFIG"

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("reelsmith.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	logDir, err := expandPath(c.Server.LogDir)
	if err != nil {
		return err
	}
	c.Server.LogDir = logDir
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	return nil
}

// EnsureDirectories creates the directories daemon operation requires.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Server.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Server.LogDir, err)
	}
	return nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
