package gradient

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Library holds the gradient assets available to effects. Index 0 is
// always the built-in default, so a library is never empty and any index
// can be resolved with a modulo.
type Library struct {
	dir    string
	assets []*Asset
}

// DefaultAsset returns the built-in grayscale gradient used when no asset
// directory is available or as the universal fallback.
func DefaultAsset() *Asset {
	return &Asset{
		Name: "default",
		Stops: []Stop{
			{Position: 0, Color: [3]uint8{0, 0, 0}},
			{Position: 1, Color: [3]uint8{255, 255, 255}},
		},
	}
}

// NewLibrary creates a library backed by dir and performs an initial scan.
// A missing or unreadable directory leaves the library with only the
// built-in default; that is not an error.
func NewLibrary(dir string) *Library {
	lib := &Library{dir: dir}
	lib.Rescan()
	return lib
}

// Rescan reloads all assets from the library directory. Malformed files
// are logged and skipped. Returns the number of assets loaded from disk.
func (l *Library) Rescan() int {
	l.assets = []*Asset{DefaultAsset()}
	if l.dir == "" {
		return 0
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Rescan",
			"dir":      l.dir,
			"error":    err.Error(),
		}).Warn("Gradient directory not readable, using built-in default only")
		return 0
	}

	var loaded []*Asset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		asset, err := LoadFile(path)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Rescan",
				"file":     path,
				"error":    err.Error(),
			}).Warn("Skipping malformed gradient asset")
			continue
		}
		if asset.Name == "" {
			asset.Name = strings.TrimSuffix(entry.Name(), ".json")
		}
		loaded = append(loaded, asset)
	}

	sort.SliceStable(loaded, func(a, b int) bool {
		return loaded[a].Name < loaded[b].Name
	})
	l.assets = append(l.assets, loaded...)

	logrus.WithFields(logrus.Fields{
		"function": "Rescan",
		"dir":      l.dir,
		"loaded":   len(loaded),
	}).Info("Gradient library scanned")
	return len(loaded)
}

// Len returns the number of assets, always at least 1.
func (l *Library) Len() int {
	return len(l.assets)
}

// Get returns the asset at index i, wrapping modulo the library size so
// cycling controls never index out of range.
func (l *Library) Get(i int) *Asset {
	n := len(l.assets)
	i %= n
	if i < 0 {
		i += n
	}
	return l.assets[i]
}

// Names returns the asset names in index order.
func (l *Library) Names() []string {
	names := make([]string, len(l.assets))
	for i, a := range l.assets {
		names[i] = a.Name
	}
	return names
}

// Dir returns the directory backing the library.
func (l *Library) Dir() string {
	return l.dir
}
