package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/space-colonies/internal/economy"
)

// LoadFile loads a single catalog file. The catalog name defaults to the
// file name without extension.
func LoadFile(path string) (economy.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return economy.Catalog{}, fmt.Errorf("catalog: reading file %s: %w", path, err)
	}

	cat, err := ParseYAML(data)
	if err != nil {
		return economy.Catalog{}, fmt.Errorf("catalog: parsing file %s: %w", path, err)
	}
	if cat.Name == "" {
		cat.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if cat.Title == "" {
			cat.Title = cat.Name
		}
	}
	return cat, nil
}

// LoadDir registers every catalog file under root. Invalid files and names
// that are already registered are skipped and returned as warnings.
// A missing directory is not an error.
func LoadDir(root string) (loaded []string, warnings []error, err error) {
	if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
		return nil, nil, nil
	}

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(FormatExtensions(), strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		cat, err := LoadFile(path)
		if err != nil {
			warnings = append(warnings, err)
			return nil
		}
		if Exists(cat.Name) {
			warnings = append(warnings, fmt.Errorf("catalog: %s: name %q already registered", path, cat.Name))
			return nil
		}
		Register(cat, path)
		loaded = append(loaded, cat.Name)
		return nil
	})
	if walkErr != nil {
		return loaded, warnings, fmt.Errorf("catalog: walking directory %s: %w", root, walkErr)
	}

	slices.Sort(loaded)
	return loaded, warnings, nil
}

// Resolve returns the catalog named by ref, or loads it from disk when ref
// is a path to a catalog file.
func Resolve(ref string) (economy.Catalog, error) {
	if ref == "" {
		ref = DefaultName
	}
	if Exists(ref) {
		return Get(ref)
	}
	if slices.Contains(FormatExtensions(), strings.ToLower(filepath.Ext(ref))) {
		return LoadFile(ref)
	}
	return Get(ref)
}
