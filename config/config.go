package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spiffcs/maintainer-dashboard/internal/constants"
	"github.com/spiffcs/maintainer-dashboard/internal/registry"
)

const appName = "maintainer-dashboard"

// Config represents the application configuration
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	StaleDays     int    `yaml:"stale_days,omitempty" json:"stale_days,omitempty"`

	// Repositories to watch, as owner/name.
	Repositories []string `yaml:"repositories,omitempty" json:"repositories,omitempty"`

	// Insiders are the maintainers whose activity counts as a response.
	Insiders []string `yaml:"insiders,omitempty" json:"insiders,omitempty"`
	// InsiderFile is a user-data JSON export; users whose user_type is in
	// InsiderTypes are added to Insiders.
	InsiderFile  string   `yaml:"insider_file,omitempty" json:"insider_file,omitempty"`
	InsiderTypes []string `yaml:"insider_types,omitempty" json:"insider_types,omitempty"`

	// GitHub Enterprise endpoints. Empty means github.com.
	GraphQLURL string `yaml:"graphql_url,omitempty" json:"graphql_url,omitempty"`
	RESTURL    string `yaml:"rest_url,omitempty" json:"rest_url,omitempty"`
}

// DefaultRepositories returns the repositories watched when none are configured.
func DefaultRepositories() []string {
	return []string{
		"newrelic/go-agent",
		"newrelic/infrastructure-agent",
		"newrelic/newrelic-dotnet-agent",
		"newrelic/newrelic-python-agent",
		"newrelic/newrelic-ruby-agent",
		"newrelic/node-newrelic",
		"newrelic/newrelic-java-agent",
		"newrelic/infrastructure-bundle",
		"newrelic/java-log-extensions",
		"newrelic/newrelic-logenricher-dotnet",
		"newrelic/newrelic-monolog-logenricher-php",
		"newrelic/newrelic-winston-logenricher-node",
		"newrelic/node-newrelic-aws-sdk",
		"newrelic/node-newrelic-koa",
		"newrelic/node-newrelic-mysql",
		"newrelic/node-newrelic-superagent",
		"newrelic/nri-apache",
		"newrelic/nri-cassandra",
		"newrelic/nri-consul",
		"newrelic/nri-couchbase",
		"newrelic/nri-discovery-kubernetes",
		"newrelic/nri-docker",
		"newrelic/nri-ecs",
		"newrelic/nri-elasticsearch",
		"newrelic/nri-f5",
		"newrelic/nri-flex",
		"newrelic/nri-haproxy",
		"newrelic/nri-jmx",
		"newrelic/nri-kafka",
		"newrelic/nri-kube-events",
		"newrelic/nri-kubernetes",
		"newrelic/nri-memcached",
		"newrelic/nri-mongodb",
		"newrelic/nri-mssql",
		"newrelic/nri-mysql",
		"newrelic/nri-nagios",
		"newrelic/nri-nginx",
		"newrelic/nri-oracledb",
		"newrelic/nri-postgresql",
		"newrelic/nri-prometheus",
		"newrelic/nri-rabbitmq",
		"newrelic/nri-redis",
		"newrelic/nri-snmp",
		"newrelic/nri-statsd",
		"newrelic/nri-varnish",
		"newrelic/nri-vsphere",
		"newrelic/nri-winservices",
		"newrelic/aws-log-ingestion",
		"newrelic/k8s-metadata-injection",
		"newrelic/k8s-webhook-cert-manager",
	}
}

// DefaultInsiderTypes returns the user-data types that count as insiders.
func DefaultInsiderTypes() []string {
	return []string{"relic", "contractor"}
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(configDir, appName)
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return "." + appName + ".yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then merges
// any local config on top (local values take precedence).
func Load() (*Config, error) {
	return LoadPaths(ConfigPath(), LocalConfigPath())
}

// LoadPaths is Load with explicit file locations. Missing files are skipped.
func LoadPaths(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	global, err := readFile(globalPath)
	if err != nil {
		return nil, err
	}
	if global != nil {
		cfg = global
	}

	local, err := readFile(localPath)
	if err != nil {
		return nil, err
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = constants.FormatTable
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile parses one config file. It returns nil, nil when path does not exist.
func readFile(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// insider_file is relative to the config file that names it
	if cfg.InsiderFile != "" && !filepath.IsAbs(cfg.InsiderFile) {
		cfg.InsiderFile = filepath.Join(filepath.Dir(path), cfg.InsiderFile)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if local.StaleDays != 0 {
		result.StaleDays = local.StaleDays
	}
	if local.InsiderFile != "" {
		result.InsiderFile = local.InsiderFile
	}
	if local.GraphQLURL != "" {
		result.GraphQLURL = local.GraphQLURL
	}
	if local.RESTURL != "" {
		result.RESTURL = local.RESTURL
	}

	// Lists are replaced, not appended
	if len(local.Repositories) > 0 {
		result.Repositories = local.Repositories
	}
	if len(local.Insiders) > 0 {
		result.Insiders = local.Insiders
	}
	if len(local.InsiderTypes) > 0 {
		result.InsiderTypes = local.InsiderTypes
	}

	return &result
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	switch c.DefaultFormat {
	case "", constants.FormatTable, constants.FormatJSON, constants.FormatMarkdown:
	default:
		return fmt.Errorf("invalid default_format %q (use table, json or markdown)", c.DefaultFormat)
	}
	if c.StaleDays < 0 {
		return fmt.Errorf("invalid stale_days %d: must not be negative", c.StaleDays)
	}
	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable, loading a .env file from the working directory first if present.
// Variables already set in the environment win over the file.
func (c *Config) GetGitHubToken() string {
	_ = godotenv.Load()
	return os.Getenv("GITHUB_TOKEN")
}

// GetRepositories returns the configured repositories, or the defaults.
func (c *Config) GetRepositories() []string {
	if len(c.Repositories) > 0 {
		return c.Repositories
	}
	return DefaultRepositories()
}

// GetInsiderTypes returns the configured insider types, or the defaults.
func (c *Config) GetInsiderTypes() []string {
	if len(c.InsiderTypes) > 0 {
		return c.InsiderTypes
	}
	return DefaultInsiderTypes()
}

// GetStaleWindow returns the configured staleness window.
func (c *Config) GetStaleWindow() time.Duration {
	if c.StaleDays > 0 {
		return time.Duration(c.StaleDays) * 24 * time.Hour
	}
	return constants.DefaultStaleWindow
}

// GetInsiders returns the configured insiders followed by those loaded
// from InsiderFile.
func (c *Config) GetInsiders() ([]string, error) {
	insiders := append([]string(nil), c.Insiders...)
	if c.InsiderFile == "" {
		return insiders, nil
	}
	fromFile, err := registry.LoadUserData(c.InsiderFile, c.GetInsiderTypes())
	if err != nil {
		return nil, err
	}
	return append(insiders, fromFile...), nil
}

// Registry builds the repository and insider registry for a run.
func (c *Config) Registry() (*registry.Registry, error) {
	insiders, err := c.GetInsiders()
	if err != nil {
		return nil, err
	}
	return registry.New(c.GetRepositories(), insiders)
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	return &Config{
		DefaultFormat: constants.FormatTable,
		StaleDays:     int(constants.DefaultStaleWindow / (24 * time.Hour)),
		Repositories:  DefaultRepositories(),
		Insiders:      []string{},
		InsiderTypes:  DefaultInsiderTypes(),
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# maintainer-dashboard configuration file
# See: maintainer-dashboard config defaults  (for all available options)

# Output format: table, json or markdown
default_format: table

# Days without a maintainer response before an item counts as stale
stale_days: 14

# Repositories to watch (defaults to the built-in list)
# repositories:
#   - owner/repo

# Maintainers whose comments count as a response
# insiders:
#   - octocat

# Or load them from a user-data export
# insider_file: userdata.json
# insider_types: [relic, contractor]
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
