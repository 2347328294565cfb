package project

import "strings"

const (
	generatorKey    = "@microsoft/generator-sharepoint"
	coreLibraryName = "@microsoft/sp-core-library"
)

// DetectVersion returns the SPFx version the project was scaffolded with.
//
// The generator version recorded in .yo-rc.json is authoritative. Projects
// without it fall back to the declared version of @microsoft/sp-core-library.
// An empty string means the version could not be determined.
func DetectVersion(p *Project) string {
	if p == nil {
		return ""
	}

	if v, ok := p.YoRcJSON.GetString(generatorKey, "version"); ok && v != "" {
		return v
	}

	if v, ok := p.Dependency(coreLibraryName, false); ok {
		return strings.TrimLeft(strings.TrimSpace(v), "^~=v")
	}

	return ""
}
