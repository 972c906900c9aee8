// Package catalog loads resource and upgrade catalogs from YAML and keeps a
// registry of named catalogs. The built-in catalogs are embedded and
// register themselves at init; user catalogs can be added from a directory.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/vovakirdan/space-colonies/internal/economy"
)

// DefaultName is the catalog used when none is selected.
const DefaultName = "colony"

// ErrUnknown is returned when a catalog name is not registered.
var ErrUnknown = errors.New("unknown catalog")

//go:embed defaults/*.yaml
var defaultFS embed.FS

// Info contains metadata about a registered catalog.
type Info struct {
	Name      string
	Title     string
	Resources int
	Upgrades  int
	Prestige  int
	Source    string // "builtin" or the file it was loaded from
}

type entry struct {
	cat    economy.Catalog
	source string
}

var (
	catalogs = make(map[string]entry)
	mu       sync.RWMutex
)

func init() {
	files, err := defaultFS.ReadDir("defaults")
	if err != nil {
		panic(fmt.Sprintf("catalog: cannot read embedded defaults: %v", err))
	}
	for _, f := range files {
		data, err := defaultFS.ReadFile(path.Join("defaults", f.Name()))
		if err != nil {
			panic(fmt.Sprintf("catalog: cannot read %s: %v", f.Name(), err))
		}
		cat, err := ParseYAML(data)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded %s is invalid: %v", f.Name(), err))
		}
		Register(cat, "builtin")
	}
}

// Register adds a catalog to the registry.
// Panics if a catalog with the same name is already registered.
func Register(cat economy.Catalog, source string) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := catalogs[cat.Name]; exists {
		panic(fmt.Sprintf("catalog: %q already registered", cat.Name))
	}
	catalogs[cat.Name] = entry{cat: cat, source: source}
}

// List returns information about all registered catalogs, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(catalogs))
	for name, e := range catalogs {
		result = append(result, Info{
			Name:      name,
			Title:     e.cat.Title,
			Resources: len(e.cat.Resources),
			Upgrades:  len(e.cat.Upgrades),
			Prestige:  len(e.cat.PrestigeUpgrades),
			Source:    e.source,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Get returns a registered catalog by name.
func Get(name string) (economy.Catalog, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := catalogs[name]
	if !ok {
		return economy.Catalog{}, fmt.Errorf("catalog: %w %q", ErrUnknown, name)
	}
	return e.cat, nil
}

// Exists checks if a catalog with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := catalogs[name]
	return ok
}
