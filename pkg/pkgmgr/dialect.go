// Package pkgmgr maps abstract package operations onto the command syntax
// of the supported package managers.
package pkgmgr

import (
	"fmt"
	"sort"
	"strings"
)

// Verb is an abstract package operation used in rule resolutions.
type Verb string

// Package operations.
const (
	Install      Verb = "install"
	InstallDev   Verb = "installDev"
	Uninstall    Verb = "uninstall"
	UninstallDev Verb = "uninstallDev"
	Dedupe       Verb = "dedupe"
)

// TemplateOrder is the order verbs are matched when rewriting a resolution.
// Dev variants come first since their names contain the plain verb.
var TemplateOrder = []Verb{UninstallDev, InstallDev, Uninstall, Install}

// Manager names one of the supported package manager dialects.
type Manager string

// Supported package managers.
const (
	NPM  Manager = "npm"
	PNPM Manager = "pnpm"
	Yarn Manager = "yarn"
)

// Default is the package manager used when none is selected.
const Default = NPM

// Dialect holds the command fragments of one package manager.
type Dialect struct {
	Name     Manager
	Commands map[Verb]string
}

var dialects = map[Manager]*Dialect{
	NPM: {
		Name: NPM,
		Commands: map[Verb]string{
			Install:      "npm i -SE",
			InstallDev:   "npm i -DE",
			Uninstall:    "npm un -S",
			UninstallDev: "npm un -D",
			Dedupe:       "npm dedupe",
		},
	},
	PNPM: {
		Name: PNPM,
		Commands: map[Verb]string{
			Install:      "pnpm i -E",
			InstallDev:   "pnpm i -DE",
			Uninstall:    "pnpm un",
			UninstallDev: "pnpm un",
		},
	},
	Yarn: {
		Name: Yarn,
		Commands: map[Verb]string{
			Install:      "yarn add -E",
			InstallDev:   "yarn add -DE",
			Uninstall:    "yarn remove",
			UninstallDev: "yarn remove",
		},
	},
}

// Get returns a dialect by name.
func Get(m Manager) (*Dialect, bool) {
	d, ok := dialects[Manager(strings.ToLower(string(m)))]
	return d, ok
}

// List returns all supported package manager names (sorted).
func List() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// Parse validates a package manager name.
func Parse(name string) (Manager, error) {
	if name == "" {
		return Default, nil
	}
	d, ok := Get(Manager(name))
	if !ok {
		return "", fmt.Errorf("unsupported package manager %q, expected one of: %s", name, strings.Join(List(), ", "))
	}
	return d.Name, nil
}

// Command returns the command fragment for verb in the dialect of m.
// Unknown managers fall back to npm; verbs a manager lacks yield "".
func Command(verb Verb, m Manager) string {
	d, ok := Get(m)
	if !ok {
		d = dialects[Default]
	}
	return d.Commands[verb]
}

// CommandFor returns the complete command applying verb to packages.
func CommandFor(verb Verb, m Manager, packages []string) string {
	cmd := Command(verb, m)
	if len(packages) == 0 {
		return cmd
	}
	return cmd + " " + strings.Join(packages, " ")
}

// Substitute replaces the leading abstract verb of a resolution with the
// concrete command of m. Only the first matching verb in TemplateOrder is
// replaced; resolutions without a verb are returned unchanged.
func Substitute(resolution string, m Manager) string {
	for _, verb := range TemplateOrder {
		if strings.HasPrefix(resolution, string(verb)) {
			return Command(verb, m) + strings.TrimPrefix(resolution, string(verb))
		}
	}
	return resolution
}
