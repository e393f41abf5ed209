package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Config holds user preferences. Missing or malformed files silently fall
// back to defaults.
type Config struct {
	ServerURL  string  `yaml:"server_url,omitempty"`
	LinkBase   string  `yaml:"link_base,omitempty"`
	SplitRatio float64 `yaml:"split_ratio,omitempty"`
	Theme      string  `yaml:"theme,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SplitRatio: 0.4,
		Theme:      "monokai",
	}
}

// Path returns the config file location under the user config dir.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bundleview", fileName)
}

// Load reads the user configuration, merging over defaults.
func Load() Config {
	return loadFrom(Path())
}

func loadFrom(path string) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg // Malformed config, use defaults
	}

	if fileCfg.ServerURL != "" {
		cfg.ServerURL = fileCfg.ServerURL
	}
	if fileCfg.LinkBase != "" {
		cfg.LinkBase = fileCfg.LinkBase
	}
	if fileCfg.SplitRatio >= 0.2 && fileCfg.SplitRatio <= 0.8 {
		cfg.SplitRatio = fileCfg.SplitRatio
	}
	if fileCfg.Theme != "" {
		cfg.Theme = fileCfg.Theme
	}
	return cfg
}

// Save writes the configuration back, creating the directory if needed.
// Failures are silent; preferences are best-effort.
func Save(cfg Config) {
	path := Path()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}
	os.WriteFile(path, data, 0o644)
}
