package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/orgs"
)

// Default source locations (the agency's public pages).
const (
	DefaultBaseURL  = "https://www.cms.gov"
	DefaultIndexURL = DefaultBaseURL + "/data-research/statistics-trends-and-reports/" +
		"medicare-advantagepart-d-contract-and-enrollment-data/" +
		"monthly-ma-enrollment-state/county/contract"
	DefaultDirectoryURL = DefaultBaseURL + "/data-research/statistics-trends-and-reports/" +
		"medicare-advantagepart-d-contract-and-enrollment-data/ma-plan-directory"
)

const DefaultRollingMonths = 24

// Config holds all runtime configuration for an sccload run.
type Config struct {
	DSN          string
	LogFormat    string // "text" or "json"
	SnapshotPath string
	CacheDir     string
	CacheTTL     time.Duration // 0 = entries never expire
	Addr         string        // serve listen address

	BaseURL       string
	IndexURL      string
	DirectoryURL  string
	HTTPTimeout   time.Duration
	RollingMonths int
	RefreshCache  bool // bypass cached periods and re-fetch

	// Table overrides merged onto the built-in defaults.
	Consolidation     map[string]string
	ContractTypeCodes map[string]string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	RollingMonths     int               `yaml:"rolling_months"`
	CacheDir          string            `yaml:"cache_dir"`
	CacheTTL          string            `yaml:"cache_ttl"`
	IndexURL          string            `yaml:"index_url"`
	DirectoryURL      string            `yaml:"directory_url"`
	BaseURL           string            `yaml:"base_url"`
	Consolidation     map[string]string `yaml:"consolidation"`
	ContractTypeCodes map[string]string `yaml:"contract_type_codes"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.RollingMonths > 0 {
		c.RollingMonths = yc.RollingMonths
	}
	if yc.CacheDir != "" {
		c.CacheDir = yc.CacheDir
	}
	if yc.CacheTTL != "" {
		ttl, err := time.ParseDuration(yc.CacheTTL)
		if err != nil {
			return fmt.Errorf("parse cache_ttl: %w", err)
		}
		c.CacheTTL = ttl
	}
	if yc.IndexURL != "" {
		c.IndexURL = yc.IndexURL
	}
	if yc.DirectoryURL != "" {
		c.DirectoryURL = yc.DirectoryURL
	}
	if yc.BaseURL != "" {
		c.BaseURL = yc.BaseURL
	}
	c.Consolidation = yc.Consolidation
	c.ContractTypeCodes = yc.ContractTypeCodes
	return c.validateContractTypeCodes()
}

// validateContractTypeCodes checks that overrides are single-character
// prefix codes.
func (c *Config) validateContractTypeCodes() error {
	for code := range c.ContractTypeCodes {
		if len(code) != 1 {
			return fmt.Errorf("contract type code %q must be a single character", code)
		}
	}
	return nil
}

// ConsolidationTable returns the built-in variant table with any
// configured overrides applied.
func (c *Config) ConsolidationTable() orgs.Table {
	table := make(orgs.Table, len(orgs.DefaultTable)+len(c.Consolidation))
	for k, v := range orgs.DefaultTable {
		table[k] = v
	}
	for k, v := range c.Consolidation {
		table[k] = v
	}
	return table
}

// ContractTypeTable returns the built-in prefix-code table with any
// configured overrides applied.
func (c *Config) ContractTypeTable() model.ContractTypeTable {
	table := model.NewContractTypeTable(model.DefaultContractTypes)
	for code, label := range c.ContractTypeCodes {
		table[code] = label
	}
	return table
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.SnapshotPath == "" {
		return fmt.Errorf("--snapshot is required")
	}
	return nil
}

// ValidateForBuild checks the fields the build pipeline needs.
func (c *Config) ValidateForBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.RollingMonths <= 0 {
		return fmt.Errorf("rolling months must be positive, got %d", c.RollingMonths)
	}
	if c.IndexURL == "" || c.BaseURL == "" {
		return fmt.Errorf("index and base URLs are required")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("--cache-dir is required")
	}
	return nil
}

// ValidateWithDSN checks snapshot and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(c.SnapshotPath); err != nil {
		return fmt.Errorf("snapshot not accessible: %w", err)
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
