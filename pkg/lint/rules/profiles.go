package rules

import (
	"fmt"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// profile describes the toolchain one range of SPFx releases ships with.
// Empty fields are not checked.
type profile struct {
	react         string
	typesReact    string
	typesReactDom string
	gulp          string
	webpackEnv    string
	typescript    string
	eslint        string
	rushStack     string // rush-stack-compiler flavour, e.g. "5.3"
	rushStackVer  string
	node          string // engines.node

	// toolchainOnly releases predate the sp-core-library and .yo-rc.json
	// version checks.
	toolchainOnly bool
}

var (
	profile1_0 = profile{
		gulp:          "~3.9.1",
		webpackEnv:    ">=1.12.1 <1.14.0",
		toolchainOnly: true,
	}
	profile1_1_3 = profile{
		react:         "15",
		typesReact:    "0.14",
		typesReactDom: "0.14",
		gulp:          "~3.9.1",
		webpackEnv:    ">=1.12.1 <1.14.0",
		toolchainOnly: true,
	}
	profile1_4 = profile{
		react:         "15.6.2",
		typesReact:    "15.6.6",
		typesReactDom: "15.5.6",
		gulp:          "~3.9.1",
		webpackEnv:    ">=1.12.1 <1.14.0",
	}
	profile1_5 = profile{
		react:         "15.6.2",
		typesReact:    "15.6.6",
		typesReactDom: "15.5.6",
		gulp:          "~3.9.1",
		webpackEnv:    "1.13.1",
	}
	profile1_7 = profile{
		react:         "16.3.2",
		typesReact:    "16.4.2",
		typesReactDom: "16.0.5",
		gulp:          "~3.9.1",
		webpackEnv:    "1.13.1",
	}
	profile1_8 = profile{
		react:         "16.7.0",
		typesReact:    "16.4.2",
		typesReactDom: "16.0.5",
		gulp:          "~3.9.1",
		webpackEnv:    "1.13.1",
		rushStack:     "2.7",
		rushStackVer:  "0.4.0",
	}
	profile1_9 = profile{
		react:         "16.8.5",
		typesReact:    "16.8.8",
		typesReactDom: "16.8.3",
		gulp:          "~3.9.1",
		webpackEnv:    "1.13.1",
		rushStack:     "3.3",
		rushStackVer:  "0.3.5",
	}
	profile1_12 = profile{
		react:         "16.9.0",
		typesReact:    "16.9.36",
		typesReactDom: "16.9.8",
		gulp:          "~4.0.2",
		webpackEnv:    "1.13.1",
		rushStack:     "3.7",
		rushStackVer:  "0.2.3",
	}
	profile1_15 = profile{
		react:         "16.13.1",
		typesReact:    "16.9.51",
		typesReactDom: "16.9.8",
		gulp:          "4.0.2",
		webpackEnv:    "~1.13.1",
		eslint:        "8.7.1",
		rushStack:     "4.5",
		rushStackVer:  "0.2.2",
	}
	profile1_17 = profile{
		react:         "17.0.1",
		typesReact:    "17.0.45",
		typesReactDom: "17.0.17",
		gulp:          "4.0.2",
		webpackEnv:    "~1.13.1",
		eslint:        "8.7.1",
		rushStack:     "4.5",
		rushStackVer:  "0.4.0",
	}
	profile1_18 = profile{
		react:         "17.0.1",
		typesReact:    "17.0.45",
		typesReactDom: "17.0.17",
		gulp:          "4.0.2",
		webpackEnv:    "~1.13.1",
		typescript:    "~4.7.4",
		eslint:        "8.7.1",
		rushStack:     "4.7",
		rushStackVer:  "0.1.0",
	}
	profile1_19 = profile{
		react:         "17.0.1",
		typesReact:    "17.0.45",
		typesReactDom: "17.0.17",
		gulp:          "4.0.2",
		webpackEnv:    "~1.13.1",
		typescript:    "~5.3.3",
		eslint:        "8.57.0",
		rushStack:     "5.3",
		rushStackVer:  "0.1.0",
		node:          ">=18.17.1 <19.0.0",
	}
	profile1_21 = profile{
		react:         "17.0.1",
		typesReact:    "17.0.45",
		typesReactDom: "17.0.17",
		gulp:          "4.0.2",
		webpackEnv:    "~1.13.1",
		typescript:    "~5.3.3",
		eslint:        "8.57.1",
		rushStack:     "5.3",
		rushStackVer:  "0.1.0",
		node:          ">=22.14.0 < 23.0.0",
	}
)

// versionProfiles lists the supported versions in release order.
var versionProfiles = []struct {
	version string
	profile profile
}{
	{"1.0.0", profile1_0},
	{"1.0.1", profile1_0},
	{"1.0.2", profile1_0},
	{"1.1.0", profile1_0},
	{"1.1.1", profile1_0},
	{"1.1.3", profile1_1_3},
	{"1.2.0", profile1_1_3},
	{"1.3.0", profile1_1_3},
	{"1.3.1", profile1_1_3},
	{"1.3.2", profile1_1_3},
	{"1.3.4", profile1_1_3},
	{"1.4.0", profile1_4},
	{"1.4.1", profile1_4},
	{"1.5.0", profile1_5},
	{"1.5.1", profile1_5},
	{"1.6.0", profile1_5},
	{"1.7.0", profile1_7},
	{"1.7.1", profile1_7},
	{"1.8.0", profile1_8},
	{"1.8.1", profile1_8},
	{"1.8.2", profile1_8},
	{"1.9.1", profile1_9},
	{"1.10.0", profile1_9},
	{"1.11.0", profile1_9},
	{"1.12.0", profile1_12},
	{"1.12.1", profile1_12},
	{"1.13.0", profile1_12},
	{"1.13.1", profile1_12},
	{"1.14.0", profile1_12},
	{"1.15.0", profile1_15},
	{"1.15.2", profile1_15},
	{"1.16.0", profile1_15},
	{"1.16.1", profile1_15},
	{"1.17.0", profile1_17},
	{"1.17.1", profile1_17},
	{"1.17.2", profile1_17},
	{"1.17.3", profile1_17},
	{"1.17.4", profile1_17},
	{"1.18.0", profile1_18},
	{"1.18.1", profile1_18},
	{"1.18.2", profile1_18},
	{"1.19.0", profile1_19},
	{"1.20.0", profile1_19},
	{"1.21.0", profile1_21},
	{"1.21.1", profile1_21},
}

// rules builds the version specific rules of a profile, in evaluation order.
func (pr profile) rules(version string) []lint.Rule {
	var rules []lint.Rule
	if !pr.toolchainOnly {
		rules = append(rules, lint.NewDependencyRule("FN001001", coreLibrary, version, false,
			lint.WithSupersedes("FN000001")))
	}

	if pr.react != "" {
		rules = append(rules,
			lint.NewDependencyRule("FN001008", "react", pr.react, false, lint.UpdateOnly()),
			lint.NewDependencyRule("FN001009", "react-dom", pr.react, false, lint.UpdateOnly()),
		)
	}
	if pr.gulp != "" {
		rules = append(rules, lint.NewDependencyRule("FN002004", "gulp", pr.gulp, true))
	}
	if pr.webpackEnv != "" {
		rules = append(rules, lint.NewDependencyRule("FN002013", "@types/webpack-env", pr.webpackEnv, true))
	}
	if pr.typesReact != "" {
		rules = append(rules,
			lint.NewDependencyRule("FN002015", "@types/react", pr.typesReact, true, lint.UpdateOnly()),
			lint.NewDependencyRule("FN002016", "@types/react-dom", pr.typesReactDom, true, lint.UpdateOnly()),
		)
	}
	if pr.eslint != "" {
		rules = append(rules, lint.NewDependencyRule("FN002019", "eslint", pr.eslint, true, lint.UpdateOnly()))
	}
	if pr.typescript != "" {
		rules = append(rules, lint.NewDependencyRule("FN002022", "typescript", pr.typescript, true, lint.UpdateOnly()))
	}
	if pr.rushStack != "" {
		pkg := "@microsoft/rush-stack-compiler-" + pr.rushStack
		rules = append(rules,
			lint.NewDependencyRule("FN002023", pkg, pr.rushStackVer, true),
			lint.NewJSONRule("FN012017", project.FileTsConfigJSON, "extends",
				lint.Equals(fmt.Sprintf("./node_modules/%s/includes/tsconfig-web.json", pkg)),
				lint.WithDescription("Extend the TypeScript configuration of "+pkg)),
		)
	}

	if !pr.toolchainOnly {
		rules = append(rules, yoRcVersion(version))
	}

	if pr.node != "" {
		rules = append(rules, lint.NewJSONRule("FN021003", project.FilePackageJSON, "engines.node",
			lint.Equals(pr.node),
			lint.WithDescription("Declare the Node.js versions supported by the project"),
			lint.WithSeverity(core.SeverityRecommended)))
	}

	return append(rules, SPFxDependencies())
}

// yoRcVersion requires .yo-rc.json to record version.
func yoRcVersion(version string) lint.Rule {
	return lint.NewJSONRuleSegments("FN010001", project.FileYoRcJSON,
		[]string{"@microsoft/generator-sharepoint", "version"}, lint.Equals(version),
		lint.WithDescription("Record the SPFx version the project uses in .yo-rc.json"),
		lint.WithSeverity(core.SeverityRecommended))
}
