package rules

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// DedupeRuleID is the rule appended only for npm projects.
const DedupeRuleID = "FN017001"

// NpmDedupe flags package-lock.json files that install the same package at
// more than one version.
func NpmDedupe() lint.Rule {
	return lint.NewCheckRule(lint.RuleDef{
		ID:             DedupeRuleID,
		Title:          "npm dedupe",
		Description:    "Remove duplicate packages from the dependency tree",
		Severity:       core.SeverityOptional,
		Resolution:     pkgmgr.Command(pkgmgr.Dedupe, pkgmgr.NPM),
		ResolutionType: core.ResolutionCmd,
		File:           project.FilePackageLock,
	}, checkNpmDedupe)
}

func checkNpmDedupe(r *lint.CheckRule, p *project.Project) ([]lint.Occurrence, error) {
	lock := p.PackageLockJSON
	if lock == nil {
		return nil, nil
	}

	installs := lockInstalls(lock)
	names := make([]string, 0, len(installs))
	for name, entries := range installs {
		if distinctVersions(entries) > 1 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	// Point at the shallowest install of the first duplicated package.
	entries := installs[names[0]]
	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.Join(entries[i].path, "/"), strings.Join(entries[j].path, "/")
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	pos := lock.PositionOf(entries[0].path...)
	return []lint.Occurrence{r.Occurrence(&pos)}, nil
}

type lockEntry struct {
	version string
	path    []string
}

// lockInstalls lists every installed package version of a lockfile, keyed
// by package name. Lockfile v2/v3 keep a flat "packages" map keyed by
// install path; v1 nests "dependencies".
func lockInstalls(lock *project.Document) map[string][]lockEntry {
	installs := make(map[string][]lockEntry)

	if packages, ok := lock.GetMap("packages"); ok {
		for key, v := range packages {
			i := strings.LastIndex(key, "node_modules/")
			if i < 0 {
				continue
			}
			name := key[i+len("node_modules/"):]
			if version := stringField(v, "version"); version != "" {
				installs[name] = append(installs[name], lockEntry{version: version, path: []string{"packages", key}})
			}
		}
		return installs
	}

	if deps, ok := lock.GetMap("dependencies"); ok {
		collectV1(deps, []string{"dependencies"}, installs)
	}
	return installs
}

func collectV1(deps map[string]any, path []string, installs map[string][]lockEntry) {
	for name, v := range deps {
		entryPath := append(append([]string(nil), path...), name)
		if version := stringField(v, "version"); version != "" {
			installs[name] = append(installs[name], lockEntry{version: version, path: entryPath})
		}
		if m, ok := v.(map[string]any); ok {
			if nested, ok := m["dependencies"].(map[string]any); ok {
				collectV1(nested, append(entryPath, "dependencies"), installs)
			}
		}
	}
}

func stringField(v any, key string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func distinctVersions(entries []lockEntry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.version] = struct{}{}
	}
	return len(seen)
}
