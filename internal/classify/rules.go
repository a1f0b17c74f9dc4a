package classify

import (
	"regexp"
	"strings"

	"github.com/macsweep/macsweep/internal/entry"
)

// bundlePrefixes recognizes reverse-DNS bundle identifiers such as
// com.apple.Safari. Order matters: first match wins.
var bundlePrefixes = []struct {
	prefix string
	label  entry.Label
}{
	{"com.apple", entry.Label{Description: "Apple system/app data", Risk: entry.RiskModerate}},
	{"com.google", entry.Label{Description: "Google app data", Risk: entry.RiskModerate}},
	{"com.microsoft", entry.Label{Description: "Microsoft app data", Risk: entry.RiskModerate}},
	{"com.jetbrains", entry.Label{Description: "JetBrains IDE data", Risk: entry.RiskSafe}},
	{"com.adobe", entry.Label{Description: "Adobe app data", Risk: entry.RiskModerate}},
	{"com.spotify", entry.Label{Description: "Spotify data", Risk: entry.RiskModerate}},
	{"com.slack", entry.Label{Description: "Slack data", Risk: entry.RiskModerate}},
	{"com.discord", entry.Label{Description: "Discord data", Risk: entry.RiskModerate}},
	{"com.github", entry.Label{Description: "GitHub app data", Risk: entry.RiskModerate}},
	{"org.mozilla", entry.Label{Description: "Mozilla/Firefox data", Risk: entry.RiskModerate}},
	{"org.chromium", entry.Label{Description: "Chromium-based browser data", Risk: entry.RiskModerate}},
	{"io.flutter", entry.Label{Description: "Flutter tooling data", Risk: entry.RiskSafe}},
}

// bundleIDRe matches reverse-DNS shaped names that no explicit prefix
// covered: at least three dot-separated alphanumeric segments.
var bundleIDRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*(\.[a-zA-Z0-9-]+){2,}$`)

type keywordRule struct {
	re    *regexp.Regexp
	label entry.Label
}

// keywordRules assign a conservative default when a name merely looks
// cache-like, log-like or temp-like. First match wins.
var keywordRules = []keywordRule{
	{regexp.MustCompile(`(?i)cache`), entry.Label{Description: "Cache data, regenerated when the app runs", Risk: entry.RiskSafe}},
	{regexp.MustCompile(`(?i)log(s)?$`), entry.Label{Description: "Log files, safe to delete", Risk: entry.RiskSafe}},
	{regexp.MustCompile(`(?i)te?mp`), entry.Label{Description: "Temporary files", Risk: entry.RiskSafe}},
	{regexp.MustCompile(`(?i)crash`), entry.Label{Description: "Crash reports, safe unless debugging", Risk: entry.RiskSafe}},
	{regexp.MustCompile(`(?i)thumbnail|thumb`), entry.Label{Description: "Thumbnail cache, rebuilt automatically", Risk: entry.RiskSafe}},
	{regexp.MustCompile(`(?i)backup`), entry.Label{Description: "Backup data, verify before deleting", Risk: entry.RiskCaution}},
	{regexp.MustCompile(`(?i)saved?\s?state`), entry.Label{Description: "Saved app state", Risk: entry.RiskModerate}},
	{regexp.MustCompile(`(?i)cookie`), entry.Label{Description: "Cookie data", Risk: entry.RiskModerate}},
	{regexp.MustCompile(`(?i)session`), entry.Label{Description: "Session data, deleting signs you out", Risk: entry.RiskModerate}},
	{regexp.MustCompile(`(?i)update`), entry.Label{Description: "Updater files", Risk: entry.RiskModerate}},
	{regexp.MustCompile(`(?i)download`), entry.Label{Description: "Downloaded files", Risk: entry.RiskModerate}},
	{regexp.MustCompile(`(?i)data(base)?s?$`), entry.Label{Description: "Data store, deleting may lose data", Risk: entry.RiskCaution}},
	{regexp.MustCompile(`(?i)preference|pref`), entry.Label{Description: "App settings, deleting resets configuration", Risk: entry.RiskCaution}},
	{regexp.MustCompile(`\.git$`), entry.Label{Description: "Git repository data, deleting loses history", Risk: entry.RiskCaution}},
	{regexp.MustCompile(`(?i)^(build|out(put)?)$`), entry.Label{Description: "Build output, regenerated by the build", Risk: entry.RiskSafe}},
	{regexp.MustCompile(`(?i)plugin|extension|addon`), entry.Label{Description: "Plugins/extensions, deleting loses functionality", Risk: entry.RiskModerate}},
	{regexp.MustCompile(`(?i)index|metadata`), entry.Label{Description: "Index/metadata, deleting forces a rebuild", Risk: entry.RiskModerate}},
}

// parentHints guess from where a folder lives when its name says
// nothing. Checked against the full path.
var parentHints = []struct {
	fragment string
	label    entry.Label
}{
	{"/Caches/", entry.Label{Description: "Cache data, regenerated when the app runs", Risk: entry.RiskSafe}},
	{"/Logs/", entry.Label{Description: "Log files, safe to delete", Risk: entry.RiskSafe}},
	{"/Application Support/", entry.Label{Description: "App data, deleting may lose settings", Risk: entry.RiskModerate}},
	{"/Containers/", entry.Label{Description: "Sandboxed app data", Risk: entry.RiskModerate}},
	{"/Developer/", entry.Label{Description: "Developer tool data", Risk: entry.RiskModerate}},
}

// matchPattern applies the structural rules: bundle identifiers first,
// then keyword substrings, then parent-path hints.
func matchPattern(name, path string) (entry.Label, bool) {
	for _, bp := range bundlePrefixes {
		if strings.HasPrefix(strings.ToLower(name), bp.prefix) {
			label := bp.label
			if parts := strings.Split(name, "."); len(parts) > 2 {
				label.Description += " (" + parts[len(parts)-1] + ")"
			}
			return label, true
		}
	}
	if bundleIDRe.MatchString(name) {
		return entry.Label{Description: "App bundle data (" + name + ")", Risk: entry.RiskModerate}, true
	}

	for _, kr := range keywordRules {
		if kr.re.MatchString(name) {
			return kr.label, true
		}
	}

	for _, h := range parentHints {
		if strings.Contains(path, h.fragment) {
			return h.label, true
		}
	}

	return entry.Label{}, false
}
