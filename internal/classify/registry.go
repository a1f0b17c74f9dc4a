package classify

import "github.com/macsweep/macsweep/internal/entry"

// builtinRegistry maps well-known folder names (lowercase) to their
// descriptions and risk tiers. Loaded once, read-only after init.
var builtinRegistry = map[string]entry.Label{
	// macOS library layout
	"caches":                  {Description: "Application caches, regenerated on next launch", Risk: entry.RiskSafe},
	"logs":                    {Description: "Application and system log files", Risk: entry.RiskSafe},
	"application support":     {Description: "Per-app data and settings, deleting loses app state", Risk: entry.RiskModerate},
	"containers":              {Description: "Sandboxed app data", Risk: entry.RiskModerate},
	"group containers":        {Description: "Shared sandboxed app data", Risk: entry.RiskModerate},
	"saved application state": {Description: "Window and session state, rebuilt on relaunch", Risk: entry.RiskSafe},
	"webkit":                  {Description: "WebKit browser data", Risk: entry.RiskModerate},
	"crashreporter":           {Description: "Crash reports, safe unless debugging", Risk: entry.RiskSafe},
	"diagnosticreports":       {Description: "Diagnostic reports, safe unless debugging", Risk: entry.RiskSafe},
	"mail":                    {Description: "Mail.app messages and indexes", Risk: entry.RiskCaution},
	"messages":                {Description: "Messages history", Risk: entry.RiskCaution},
	"photos":                  {Description: "Photos library data", Risk: entry.RiskCaution},
	"keychains":               {Description: "Credential storage, never delete", Risk: entry.RiskCaution},
	"preferences":             {Description: "App settings, deleting resets configuration", Risk: entry.RiskCaution},
	"mobile documents":        {Description: "iCloud Drive local copies", Risk: entry.RiskCaution},
	".trash":                  {Description: "Trash contents, already marked for removal", Risk: entry.RiskSafe},
	"downloads":               {Description: "Downloaded files, review before deleting", Risk: entry.RiskModerate},

	// Xcode / Apple development
	"deriveddata":       {Description: "Xcode build products and indexes, rebuilt on demand", Risk: entry.RiskSafe},
	"archives":          {Description: "Xcode app archives, needed for symbolication", Risk: entry.RiskModerate},
	"ios devicesupport": {Description: "Debug symbols for old iOS versions", Risk: entry.RiskSafe},
	"coresimulator":     {Description: "iOS simulator devices and runtimes", Risk: entry.RiskModerate},
	"xcpgdevices":       {Description: "Xcode playground devices", Risk: entry.RiskSafe},

	// package managers and build tools
	"node_modules":     {Description: "Node.js packages, restored by npm/yarn install", Risk: entry.RiskSafe},
	".npm":             {Description: "npm download cache", Risk: entry.RiskSafe},
	".yarn":            {Description: "Yarn package cache", Risk: entry.RiskSafe},
	".pnpm-store":      {Description: "pnpm content-addressable store", Risk: entry.RiskSafe},
	"bower_components": {Description: "Bower packages, restored by bower install", Risk: entry.RiskSafe},
	".next":            {Description: "Next.js build output", Risk: entry.RiskSafe},
	".nuxt":            {Description: "Nuxt build output", Risk: entry.RiskSafe},
	".turbo":           {Description: "Turborepo task cache", Risk: entry.RiskSafe},
	".expo":            {Description: "Expo build cache", Risk: entry.RiskSafe},
	"__pycache__":      {Description: "Python bytecode cache", Risk: entry.RiskSafe},
	".pytest_cache":    {Description: "pytest cache", Risk: entry.RiskSafe},
	".mypy_cache":      {Description: "mypy type-check cache", Risk: entry.RiskSafe},
	".ruff_cache":      {Description: "ruff lint cache", Risk: entry.RiskSafe},
	".tox":             {Description: "tox virtualenvs, recreated on next run", Risk: entry.RiskSafe},
	".venv":            {Description: "Python virtualenv, recreated from requirements", Risk: entry.RiskModerate},
	"venv":             {Description: "Python virtualenv, recreated from requirements", Risk: entry.RiskModerate},
	".cargo":           {Description: "Cargo registry and build caches", Risk: entry.RiskModerate},
	"target":           {Description: "Rust build output, rebuilt by cargo", Risk: entry.RiskSafe},
	".gradle":          {Description: "Gradle caches and wrappers", Risk: entry.RiskSafe},
	".m2":              {Description: "Maven local repository, re-downloaded on build", Risk: entry.RiskSafe},
	".ivy2":            {Description: "Ivy dependency cache", Risk: entry.RiskSafe},
	".nuget":           {Description: "NuGet package cache", Risk: entry.RiskSafe},
	".pub-cache":       {Description: "Dart/Flutter package cache", Risk: entry.RiskSafe},
	".dart_tool":       {Description: "Dart build tooling output", Risk: entry.RiskSafe},
	".gem":             {Description: "RubyGems cache", Risk: entry.RiskSafe},
	".cocoapods":       {Description: "CocoaPods spec repos and caches", Risk: entry.RiskSafe},
	"pods":             {Description: "CocoaPods dependencies, restored by pod install", Risk: entry.RiskSafe},
	"homebrew":         {Description: "Homebrew download cache", Risk: entry.RiskSafe},
	".docker":          {Description: "Docker Desktop data, images and volumes", Risk: entry.RiskCaution},
	"go-build":         {Description: "Go build cache, rebuilt on demand", Risk: entry.RiskSafe},
	"vendor":           {Description: "Vendored dependencies, restored by the package manager", Risk: entry.RiskSafe},
	"dist":             {Description: "Build output, regenerated by the build", Risk: entry.RiskSafe},
	"coverage":         {Description: "Test coverage output", Risk: entry.RiskSafe},

	// editors and tools
	".vscode":   {Description: "VS Code user data and extensions", Risk: entry.RiskModerate},
	"jetbrains": {Description: "JetBrains IDE caches and settings", Risk: entry.RiskModerate},
	".android":  {Description: "Android SDK emulator images and caches", Risk: entry.RiskModerate},
	"tmp":       {Description: "Temporary files", Risk: entry.RiskSafe},
}

// lookupBuiltin resolves the final path component against the built-in
// registry, case-insensitively.
func lookupBuiltin(name string) (entry.Label, bool) {
	l, ok := builtinRegistry[normalizeKey(name)]
	return l, ok
}
