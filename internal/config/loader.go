package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".marinecrawl"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .marinecrawl configuration file.
// Every field is optional. Zero values leave the defaults untouched.
type File struct {
	BaseURL           string    `yaml:"baseURL,omitempty"`
	PortsURL          string    `yaml:"portsURL,omitempty"`
	OutputDir         string    `yaml:"outputDir,omitempty"`
	InterestFile      string    `yaml:"interestFile,omitempty"`
	ErrorFile         string    `yaml:"errorFile,omitempty"`
	Route             string    `yaml:"route,omitempty"`
	EmbeddedTor       bool      `yaml:"tor,omitempty"`
	UserAgent         string    `yaml:"userAgent,omitempty"`
	RequestsPerSecond float64   `yaml:"requestsPerSecond,omitempty"`
	PageSize          int       `yaml:"pageSize,omitempty"`
	ShipType          int       `yaml:"shipType,omitempty"`
	TypeKeyword       string    `yaml:"typeKeyword,omitempty"`
	TypeIcon          string    `yaml:"typeIcon,omitempty"`
	Concurrency       int       `yaml:"concurrency,omitempty"`
	HistoryDir        string    `yaml:"historyDir,omitempty"`
	Selectors         Selectors `yaml:"selectors,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers decide whether that is an error based on whether the path was
// given explicitly.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies every value set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}

	setString(&cfg.BaseURL, cf.BaseURL)
	setString(&cfg.PortsURL, cf.PortsURL)
	setString(&cfg.OutputDir, cf.OutputDir)
	setString(&cfg.InterestFile, cf.InterestFile)
	setString(&cfg.ErrorFile, cf.ErrorFile)
	setString(&cfg.Route, cf.Route)
	setString(&cfg.UserAgent, cf.UserAgent)
	setString(&cfg.TypeKeyword, cf.TypeKeyword)
	setString(&cfg.TypeIcon, cf.TypeIcon)
	setString(&cfg.HistoryDir, cf.HistoryDir)
	setInt(&cfg.PageSize, cf.PageSize)
	setInt(&cfg.ShipType, cf.ShipType)
	setInt(&cfg.Concurrency, cf.Concurrency)
	if cf.EmbeddedTor {
		cfg.EmbeddedTor = true
	}
	if cf.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = cf.RequestsPerSecond
	}
	cfg.Selectors = cfg.Selectors.Merge(cf.Selectors)
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .marinecrawl in the current directory
// 3. Look for .marinecrawl in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
