package scan

import (
	"path/filepath"

	"github.com/macsweep/macsweep/internal/boundary"
	"github.com/macsweep/macsweep/internal/entry"
)

// DefaultRoots is the fixed set of top-level locations a scan always
// checks. Roots that do not exist on this machine are silently
// omitted; a missing dev tool is expected, not an error.
func DefaultRoots(home string) []entry.ScanRoot {
	lib := func(parts ...string) string {
		return filepath.Join(append([]string{home, "Library"}, parts...)...)
	}
	return []entry.ScanRoot{
		{ID: "caches", Path: lib("Caches"), Label: "Library/Caches"},
		{ID: "logs", Path: lib("Logs"), Label: "Library/Logs"},
		{ID: "app-support", Path: lib("Application Support"), Label: "Library/Application Support"},
		{ID: "containers", Path: lib("Containers"), Label: "Library/Containers"},
		{ID: "xcode", Path: lib("Developer", "Xcode", "DerivedData"), Label: "Xcode/DerivedData"},
		{ID: "simulators", Path: lib("Developer", "CoreSimulator"), Label: "Xcode/CoreSimulator"},
		{ID: "homebrew", Path: lib("Caches", "Homebrew"), Label: "Homebrew cache"},
		{ID: "npm", Path: filepath.Join(home, ".npm"), Label: "npm cache"},
		{ID: "yarn", Path: filepath.Join(home, ".yarn"), Label: "Yarn cache"},
		{ID: "cargo", Path: filepath.Join(home, ".cargo"), Label: "Cargo cache"},
		{ID: "gradle", Path: filepath.Join(home, ".gradle"), Label: "Gradle cache"},
		{ID: "cocoapods", Path: filepath.Join(home, ".cocoapods"), Label: "CocoaPods cache"},
		{ID: "go-cache", Path: filepath.Join(home, ".cache"), Label: "User cache dir"},
		{ID: "downloads", Path: filepath.Join(home, "Downloads"), Label: "Downloads"},
		{ID: "trash", Path: filepath.Join(home, ".Trash"), Label: "Trash"},
		{ID: "syslog", Path: boundary.SystemLogDir, Label: "System logs"},
	}
}
