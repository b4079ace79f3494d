package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aenzbi-labs/aenzbi/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyProjectName = "project.name"
	KeyToolTimeout = "tools.timeout"
	KeyStrict      = "setup.strict"
	KeyLayoutFile  = "layout.file"
)

// DefaultToolTimeout bounds a single external generator invocation.
const DefaultToolTimeout = 10 * time.Minute

// Dir returns the path to the config directory. AENZBI_HOME overrides the
// default of ~/.aenzbi/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.aenzbi/config.yaml).
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
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyProjectName, branding.DefaultProject())
	viper.SetDefault(KeyToolTimeout, DefaultToolTimeout.String())
	viper.SetDefault(KeyStrict, false)
	viper.SetDefault(KeyLayoutFile, "")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Reset discards all loaded settings. Tests use it to isolate Viper's
// global state between cases.
func Reset() {
	viper.Reset()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// ProjectName returns the configured project name.
func ProjectName() string {
	if v := viper.GetString(KeyProjectName); v != "" {
		return v
	}
	return branding.DefaultProject()
}

// ToolTimeout returns the per-tool timeout. Unparseable or non-positive
// values fall back to DefaultToolTimeout.
func ToolTimeout() time.Duration {
	d, err := time.ParseDuration(viper.GetString(KeyToolTimeout))
	if err != nil || d <= 0 {
		return DefaultToolTimeout
	}
	return d
}

// Strict reports whether external tool failures abort the setup run.
func Strict() bool {
	return viper.GetBool(KeyStrict)
}

// LayoutFile returns the path of a custom layout manifest, or "" for the
// embedded default.
func LayoutFile() string {
	return viper.GetString(KeyLayoutFile)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
