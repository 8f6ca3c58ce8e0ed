package sqlemit

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/bookingsql/internal/core"
)

// renderFunc writes the campaign statements of one style.
type renderFunc func(sw *sqlWriter, campaigns []core.Campaign, opts Options)

// StyleDefinition describes a registered SQL style.
type StyleDefinition struct {
	Key         string
	Description string
	Render      renderFunc
}

var (
	registry   = make(map[string]StyleDefinition)
	registryMu sync.RWMutex
)

// Register adds a style to the registry.
// Panics if a style with the same key is already registered.
func Register(def StyleDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("style already registered: %s", def.Key))
	}
	if def.Render == nil {
		panic(fmt.Sprintf("style %s has no renderer", def.Key))
	}

	registry[def.Key] = def
}

// Get returns a style by key.
// Returns false if not found.
func Get(key string) (StyleDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Styles returns the registered style keys, sorted alphabetically.
func Styles() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

// Describe lists the registered styles with their descriptions,
// e.g. "insert (multi-row INSERT batches ...), procedure (...)".
func Describe() string {
	keys := Styles()

	registryMu.RLock()
	defer registryMu.RUnlock()

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s (%s)", k, registry[k].Description)
	}
	return strings.Join(parts, ", ")
}
