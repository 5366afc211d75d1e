package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pyproj-labs/pyproj/internal/branding"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized keys.
const (
	KeyPython    = "python"
	KeyEditor    = "editor"
	KeyProfile   = "profile"
	KeyMinPython = "min_python"
)

var defaults = map[string]string{
	KeyPython:    "python3",
	KeyEditor:    "code",
	KeyProfile:   "",
	KeyMinPython: "3.8.0",
}

// Settings is a resolved snapshot of every key.
type Settings struct {
	Python    string
	Editor    string
	Profile   string
	MinPython string
}

// InvalidError is returned by Set when the resulting document does not
// satisfy the configuration schema.
type InvalidError struct {
	Key    string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			msgs = append(msgs, issue.Path+": "+issue.Message)
		} else {
			msgs = append(msgs, issue.Message)
		}
	}
	return fmt.Sprintf("invalid value for %q: %s", e.Key, strings.Join(msgs, "; "))
}

// Keys returns the recognized keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the built-in value for key.
func Default(key string) string {
	return defaults[key]
}

// Dir returns the path to the pyproj config directory (~/.pyproj/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.pyproj/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current resolves every key through file, environment and defaults.
func Current() Settings {
	return Settings{
		Python:    Get(KeyPython),
		Editor:    Get(KeyEditor),
		Profile:   Get(KeyProfile),
		MinPython: Get(KeyMinPython),
	}
}

// Set validates and writes a config key-value pair. Only keys stored in the
// file are written back; environment overrides never leak into it.
func Set(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	doc, err := readDocument(configFile)
	if err != nil {
		return err
	}
	doc[key] = value

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	result, err := Validate(data)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidError{Key: key, Issues: result.Issues}
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}

func readDocument(path string) (map[string]interface{}, error) {
	doc := map[string]interface{}{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}
