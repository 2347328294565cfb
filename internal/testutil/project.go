package testutil

import (
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Files maps project-relative paths to file contents.
type Files map[string]string

// With returns a copy of f with the given files replaced or added.
func (f Files) With(overrides Files) Files {
	out := maps.Clone(f)
	maps.Copy(out, overrides)
	return out
}

// WriteProject writes files into a fresh temporary directory and returns it.
func WriteProject(t testing.TB, files Files) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0600))
	}
	return root
}

// HealthyPackageJSON is a package.json of an SPFx 1.21.0 project that passes
// every rule for that version.
const HealthyPackageJSON = `{
  "name": "hello-world",
  "version": "0.0.1",
  "private": true,
  "engines": {
    "node": ">=22.14.0 < 23.0.0"
  },
  "dependencies": {
    "@microsoft/sp-core-library": "1.21.0",
    "@microsoft/sp-webpart-base": "1.21.0",
    "react": "17.0.1",
    "react-dom": "17.0.1"
  },
  "devDependencies": {
    "@microsoft/rush-stack-compiler-5.3": "0.1.0",
    "@microsoft/sp-build-web": "1.21.0",
    "@types/react": "17.0.45",
    "@types/react-dom": "17.0.17",
    "@types/webpack-env": "~1.13.1",
    "eslint": "8.57.1",
    "gulp": "4.0.2",
    "typescript": "~5.3.3"
  }
}`

// Healthy121 is a complete SPFx 1.21.0 project without findings.
var Healthy121 = Files{
	"package.json": HealthyPackageJSON,
	".yo-rc.json": `{
  "@microsoft/generator-sharepoint": {
    "version": "1.21.0",
    "environment": "spo"
  }
}`,
	"tsconfig.json": `{
  "extends": "./node_modules/@microsoft/rush-stack-compiler-5.3/includes/tsconfig-web.json",
  "compilerOptions": {
    // emitted JavaScript
    "outDir": "lib"
  }
}`,
	"config/package-solution.json": `{
  "solution": {
    "name": "hello-world-client-side-solution"
  }
}`,
	"package-lock.json": `{
  "name": "hello-world",
  "lockfileVersion": 3,
  "packages": {
    "": {
      "name": "hello-world"
    },
    "node_modules/react": {
      "version": "17.0.1"
    },
    "node_modules/react-dom": {
      "version": "17.0.1"
    }
  }
}`,
}
