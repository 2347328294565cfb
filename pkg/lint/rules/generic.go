package rules

import (
	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

const coreLibrary = "@microsoft/sp-core-library"

// Generic returns the version independent rules, in evaluation order.
func Generic() []lint.Rule {
	return []lint.Rule{
		CoreLibraryMinimum(),
		PackageName(),
		PackagePrivate(),
		SolutionName(),
		TsConfigOutDir(),
	}
}

// CoreLibraryMinimum flags a referenced sp-core-library older than any
// supported release. Version profiles supersede it with their exact version.
func CoreLibraryMinimum() lint.Rule {
	return lint.NewDependencyRule("FN000001", coreLibrary, ">=1.0.0", false,
		lint.UpdateOnly(),
		lint.WithDescription("Reference a released version of "+coreLibrary),
	)
}

// PackageName requires a package name in package.json.
func PackageName() lint.Rule {
	return lint.NewJSONRule("FN000002", project.FilePackageJSON, "name",
		lint.Predicate(nonEmptyString),
		lint.WithDescription("Set the name of the package in package.json"),
		lint.WithResolution("{\n  \"name\": \"spfx-solution\"\n}"),
		lint.WithSeverity(core.SeverityRecommended),
	)
}

// PackagePrivate keeps the solution package out of public registries.
func PackagePrivate() lint.Rule {
	return lint.NewJSONRule("FN000003", project.FilePackageJSON, "private", lint.Equals(true),
		lint.WithDescription("Mark the package as private to prevent publishing it to a registry"),
		lint.WithSeverity(core.SeverityOptional),
	)
}

// SolutionName requires config/package-solution.json to name the solution.
func SolutionName() lint.Rule {
	return lint.NewJSONRule("FN000004", project.FilePackageSolution, "solution.name",
		lint.Predicate(nonEmptyString),
		lint.WithDescription("Set the name of the solution in package-solution.json"),
		lint.WithResolution("{\n  \"solution\": {\n    \"name\": \"spfx-solution-client-side-solution\"\n  }\n}"),
	)
}

// TsConfigOutDir requires compiled output in lib, where the build pipeline
// picks it up.
func TsConfigOutDir() lint.Rule {
	return lint.NewJSONRule("FN000005", project.FileTsConfigJSON, "compilerOptions.outDir", lint.Equals("lib"),
		lint.WithDescription("Emit compiled output to the lib folder"),
	)
}

func nonEmptyString(v any, present bool) bool {
	s, ok := v.(string)
	return present && ok && s != ""
}
