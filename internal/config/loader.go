package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the config file name looked up in the working directory.
	DefaultConfigFile = ".a11yscan.yaml"

	// XDGConfigFile is the config file name inside XDGConfigDir.
	XDGConfigFile = "config.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the YAML configuration file.
// Every field is optional; unset fields leave the Config untouched.
type File struct {
	Server     ServerSection     `yaml:"server,omitempty"`
	Browser    BrowserSection    `yaml:"browser,omitempty"`
	RuleEngine RuleEngineSection `yaml:"ruleEngine,omitempty"`
}

// ServerSection configures the web app.
type ServerSection struct {
	// Address is the "host:port" to listen on.
	Address string `yaml:"address,omitempty"`

	// ShutdownTimeout is a Go duration string such as "10s".
	ShutdownTimeout *time.Duration `yaml:"shutdownTimeout,omitempty"`

	// JSONLogs enables JSON request logs.
	JSONLogs *bool `yaml:"jsonLogs,omitempty"`
}

// BrowserSection configures the headless browser.
type BrowserSection struct {
	// Bin is the Chromium executable path.
	Bin string `yaml:"bin,omitempty"`

	NavigationTimeout *time.Duration `yaml:"navigationTimeout,omitempty"`
	OperationTimeout  *time.Duration `yaml:"operationTimeout,omitempty"`
	SettleDelay       *time.Duration `yaml:"settleDelay,omitempty"`
}

// RuleEngineSection configures the injected rule engine.
type RuleEngineSection struct {
	// Script is the path of the axe-core bundle. Relative paths are
	// resolved against the directory of the config file.
	Script string `yaml:"script,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers decide whether that is fatal based on whether the path was
// explicitly given by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cf.RuleEngine.Script != "" && !filepath.IsAbs(cf.RuleEngine.Script) {
		cf.RuleEngine.Script = filepath.Join(filepath.Dir(path), cf.RuleEngine.Script)
	}

	return &cf, nil
}

// Apply copies every value set in the file onto c.
func (cf *File) Apply(c *Config) {
	if cf.Server.Address != "" {
		c.ListenAddress = cf.Server.Address
	}
	if cf.Server.ShutdownTimeout != nil {
		c.ShutdownTimeout = *cf.Server.ShutdownTimeout
	}
	if cf.Server.JSONLogs != nil {
		c.JSONLogs = *cf.Server.JSONLogs
	}
	if cf.Browser.Bin != "" {
		c.BrowserBin = cf.Browser.Bin
	}
	if cf.Browser.NavigationTimeout != nil {
		c.NavigationTimeout = *cf.Browser.NavigationTimeout
	}
	if cf.Browser.OperationTimeout != nil {
		c.OperationTimeout = *cf.Browser.OperationTimeout
	}
	if cf.Browser.SettleDelay != nil {
		c.SettleDelay = *cf.Browser.SettleDelay
	}
	if cf.RuleEngine.Script != "" {
		c.ScriptPath = cf.RuleEngine.Script
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .a11yscan.yaml in the current directory
// 3. Look for config.yaml in XDGConfigDir
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), XDGConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Load resolves the config file for c.ConfigFilePath and applies it onto c.
// An explicit path that does not exist is an error; a missing default file
// is not. It returns the path that was applied, or "" when none was.
func Load(c *Config) (string, error) {
	path := FindConfigFile(c.ConfigFilePath)
	if path == "" {
		if c.ConfigFilePath != "" {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFilePath)
		}
		return "", nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return "", err
	}
	cf.Apply(c)
	return path, nil
}
