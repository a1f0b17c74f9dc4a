// Package classify resolves folder paths to safety labels through an
// ordered chain of resolvers: built-in registry, learned overlay, then
// structural pattern rules. Anything unresolved defaults to the most
// conservative tier; an unknown folder is never called safe.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/store"
)

// Unknown is the label attached when no resolver matches.
var Unknown = entry.Label{Description: "", Risk: entry.RiskCaution}

// resolver tries to label one path. Resolvers are pure: they read the
// path (and, for the overlay, the last-committed snapshot) and nothing
// else.
type resolver func(name, path string) (entry.Label, bool)

// Classifier labels folders. Construct once at startup and share; all
// methods are safe for concurrent use.
type Classifier struct {
	resolvers []resolver
	overlay   *store.Store
}

// New builds the resolver chain over the given store's overlay.
func New(st *store.Store) *Classifier {
	c := &Classifier{overlay: st}
	// Learned labels carry real descriptions, so they outrank the
	// structural guesses; only the built-in registry beats them.
	c.resolvers = []resolver{
		func(name, _ string) (entry.Label, bool) { return lookupBuiltin(name) },
		func(name, _ string) (entry.Label, bool) { return st.OverlayGet(name) },
		matchPattern,
	}
	return c
}

// Classify labels the folder at path. First resolver match wins;
// no match returns the caution default.
func (c *Classifier) Classify(path string) entry.Label {
	name := filepath.Base(filepath.Clean(path))
	for _, resolve := range c.resolvers {
		if label, ok := resolve(name, path); ok {
			return label
		}
	}
	return Unknown
}

// Learn persists an externally resolved label into the overlay so
// later classifications resolve it locally. The store enforces the
// lowercase-key and serialized-write invariants.
func (c *Classifier) Learn(name string, label entry.Label) error {
	return c.overlay.LearnOverlay(name, label)
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
