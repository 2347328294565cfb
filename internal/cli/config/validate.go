package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
	"github.com/leapstack-labs/spfxdoctor/pkg/report"
)

// Formats lists the display modes of the listing commands.
var Formats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Manager(); err != nil {
		return err
	}
	if _, err := c.ReportFormat(); err != nil {
		return err
	}
	if !validFormat(c.Format) {
		return fmt.Errorf("unsupported format %q, expected one of: %s", c.Format, strings.Join(Formats, ", "))
	}
	if _, err := c.SeverityOverrides(); err != nil {
		return err
	}
	return nil
}

// Manager returns the configured package manager.
func (c *Config) Manager() (pkgmgr.Manager, error) {
	return pkgmgr.Parse(c.PackageManager)
}

// ReportFormat returns the configured report format.
func (c *Config) ReportFormat() (report.Format, error) {
	return report.ParseFormat(c.Output)
}

// SeverityOverrides parses rules.severity into severities keyed by rule id.
func (c *Config) SeverityOverrides() (map[string]core.Severity, error) {
	raw := c.GetRules().Severity
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]core.Severity, len(raw))
	for id, name := range raw {
		sev, ok := core.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("rules.severity.%s: unknown severity %q, expected one of: required, recommended, optional", id, name)
		}
		out[strings.ToUpper(id)] = sev
	}
	return out, nil
}

func validFormat(f string) bool {
	if f == "" {
		return true
	}
	for _, known := range Formats {
		if strings.EqualFold(f, known) {
			return true
		}
	}
	return false
}
