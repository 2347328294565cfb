package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

const spfxPackagePrefix = "@microsoft/sp-"

// SPFxDependencies requires every referenced SPFx package to match the
// project version. sp-core-library has its own rule in each profile.
func SPFxDependencies() lint.Rule {
	return lint.NewCheckRule(lint.RuleDef{
		ID:             "FN021001",
		Title:          "SPFx dependencies versions",
		Description:    "All SharePoint Framework packages should match the version of the project",
		Severity:       core.SeverityRequired,
		Resolution:     "install " + spfxPackagePrefix + "*",
		ResolutionType: core.ResolutionCmd,
		File:           project.FilePackageJSON,
	}, checkSPFxDependencies)
}

func checkSPFxDependencies(r *lint.CheckRule, p *project.Project) ([]lint.Occurrence, error) {
	if p.Version == "" {
		return nil, nil
	}

	var occurrences []lint.Occurrence
	for _, dev := range []bool{false, true} {
		section, verb := "dependencies", pkgmgr.Install
		if dev {
			section, verb = "devDependencies", pkgmgr.InstallDev
		}

		deps := p.Dependencies(dev)
		names := make([]string, 0, len(deps))
		for name := range deps {
			if strings.HasPrefix(name, spfxPackagePrefix) && name != coreLibrary {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		for _, name := range names {
			if strings.TrimSpace(deps[name]) == p.Version {
				continue
			}
			pos := p.PackageJSON.PositionOf(section, name)
			occurrences = append(occurrences, lint.Occurrence{
				File:       r.File(),
				Resolution: fmt.Sprintf("%s %s@%s", verb, name, p.Version),
				Position:   &pos,
			})
		}
	}
	return occurrences, nil
}
