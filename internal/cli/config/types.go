// Package config provides configuration management for the spfxdoctor CLI.
//
// Configuration is layered, lowest precedence first: built-in defaults,
// spfxdoctor.yaml, SPFXDOCTOR_* environment variables and explicit flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	ProjectDir     string       `koanf:"project_dir"`
	PackageManager string       `koanf:"package_manager"`
	Output         string       `koanf:"output"`
	Format         string       `koanf:"format"`
	Verbose        bool         `koanf:"verbose"`
	DocsBaseURL    string       `koanf:"docs_base_url"`
	Rules          *RulesConfig `koanf:"rules"`
}

// RulesConfig tunes the rule set of every run.
type RulesConfig struct {
	// Disabled lists rule ids skipped before evaluation.
	Disabled []string `koanf:"disabled"`
	// Severity overrides the severity of individual rules, by id.
	Severity map[string]string `koanf:"severity"`
}

// Default configuration values.
const (
	DefaultPackageManager = "npm"
	DefaultOutput         = "json"
	DefaultFormat         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileNames are searched, in order, in the project directory.
var ConfigFileNames = []string{"spfxdoctor.yaml", "spfxdoctor.yml", ".spfxdoctor.yaml"}

// Defaults returns a Config with default values.
func Defaults() *Config {
	return &Config{
		ProjectDir:     ".",
		PackageManager: DefaultPackageManager,
		Output:         DefaultOutput,
		Format:         DefaultFormat,
		Rules:          &RulesConfig{},
	}
}

// GetRules returns the rules config, never nil.
func (c *Config) GetRules() *RulesConfig {
	if c.Rules == nil {
		return &RulesConfig{}
	}
	return c.Rules
}
