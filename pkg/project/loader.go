package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoProjectRoot is returned when no SPFx project root can be found.
var ErrNoProjectRoot = errors.New("couldn't find project root folder")

// maxUpwardSearchLevels limits how far up the directory tree to search for the project root.
const maxUpwardSearchLevels = 10

// rootMarkers identify a project root, strongest first.
var rootMarkers = []string{".yo-rc.json", "package.json"}

// FindRoot searches upward from startDir for the project root.
// A directory with .yo-rc.json wins over one that only has package.json.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for _, marker := range rootMarkers {
		if root := findUpward(abs, marker); root != "" {
			return root, nil
		}
	}
	return "", ErrNoProjectRoot
}

func findUpward(startDir, marker string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// knownFiles lists the documents collected into a Project.
var knownFiles = []struct {
	path string
	set  func(p *Project, d *Document)
}{
	{FilePackageJSON, func(p *Project, d *Document) { p.PackageJSON = d }},
	{FileTsConfigJSON, func(p *Project, d *Document) { p.TsConfigJSON = d }},
	{FileSassJSON, func(p *Project, d *Document) { p.SassJSON = d }},
	{FileYoRcJSON, func(p *Project, d *Document) { p.YoRcJSON = d }},
	{FilePackageSolution, func(p *Project, d *Document) { p.PackageSolutionJSON = d }},
	{FilePackageLock, func(p *Project, d *Document) { p.PackageLockJSON = d }},
}

// Files returns the project-relative paths of every known document.
func Files() []string {
	out := make([]string, len(knownFiles))
	for i, f := range knownFiles {
		out[i] = f.path
	}
	return out
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	skip map[string]bool
}

// SkipFiles leaves known files unread. Their documents stay nil.
func SkipFiles(files ...string) LoadOption {
	return func(o *loadOptions) {
		for _, f := range files {
			o.skip[f] = true
		}
	}
}

// Load reads every known configuration file under root.
// Missing files are skipped; unreadable or malformed files fail the load.
func Load(root string, opts ...LoadOption) (*Project, error) {
	o := loadOptions{skip: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Project{Root: root}

	for _, f := range knownFiles {
		if o.skip[f.path] {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(f.path, "./")))
		raw, err := os.ReadFile(full)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
		}

		doc, err := ParseDocument(f.path, raw)
		if err != nil {
			return nil, err
		}
		f.set(p, doc)
	}

	return p, nil
}
