// Package project loads an SPFx project's configuration files into an
// immutable snapshot that rules can inspect.
package project

// Known project files, relative to the project root.
const (
	FilePackageJSON     = "./package.json"
	FileTsConfigJSON    = "./tsconfig.json"
	FileSassJSON        = "./config/sass.json"
	FileYoRcJSON        = "./.yo-rc.json"
	FilePackageSolution = "./config/package-solution.json"
	FilePackageLock     = "./package-lock.json"
)

// Project is a read-only snapshot of the project configuration surface.
// Documents are nil when the corresponding file does not exist.
type Project struct {
	Root    string
	Version string

	PackageJSON         *Document
	TsConfigJSON        *Document
	SassJSON            *Document
	YoRcJSON            *Document
	PackageSolutionJSON *Document
	PackageLockJSON     *Document
}

// Document returns the document stored for a known file path.
func (p *Project) Document(file string) *Document {
	if p == nil {
		return nil
	}
	switch file {
	case FilePackageJSON:
		return p.PackageJSON
	case FileTsConfigJSON:
		return p.TsConfigJSON
	case FileSassJSON:
		return p.SassJSON
	case FileYoRcJSON:
		return p.YoRcJSON
	case FilePackageSolution:
		return p.PackageSolutionJSON
	case FilePackageLock:
		return p.PackageLockJSON
	default:
		return nil
	}
}

// SolutionName returns the solution name from config/package-solution.json.
func (p *Project) SolutionName() string {
	if p == nil {
		return ""
	}
	name, _ := p.PackageSolutionJSON.GetString("solution", "name")
	return name
}

// Dependency returns the declared version of a package and whether it is present.
func (p *Project) Dependency(name string, dev bool) (string, bool) {
	if p == nil {
		return "", false
	}
	section := "dependencies"
	if dev {
		section = "devDependencies"
	}
	return p.PackageJSON.GetString(section, name)
}

// Dependencies returns the dependencies (or devDependencies) map of package.json.
func (p *Project) Dependencies(dev bool) map[string]string {
	result := make(map[string]string)
	if p == nil {
		return result
	}
	section := "dependencies"
	if dev {
		section = "devDependencies"
	}
	deps, ok := p.PackageJSON.GetMap(section)
	if !ok {
		return result
	}
	for name, v := range deps {
		if s, ok := v.(string); ok {
			result[name] = s
		}
	}
	return result
}
