// Package fonts provides the font sources used for text measurement and
// raster rendering.
//
// The Go font family from golang.org/x/image is compiled into the binary, so
// measurements are identical on every machine without external font files.
// Parsed fonts are cached after first use.
package fonts

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font family names accepted by [Lookup].
const (
	Regular = "go"
	Bold    = "go-bold"
	Mono    = "go-mono"
)

// Default is the family used when none is requested.
const Default = Regular

// FontFamily is the CSS font-family for SVG output of the default family.
const FontFamily = `'Go', 'DejaVu Sans', 'Helvetica', sans-serif`

var sources = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
	Mono:    gomono.TTF,
}

// Cache for parsed fonts (computed once per family on first access).
var (
	parsed   = map[string]*opentype.Font{}
	parsedMu sync.Mutex
)

// TTF returns the raw TrueType data for a family.
func TTF(name string) ([]byte, error) {
	data, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown font %q (available: %v)", name, Names())
	}
	return data, nil
}

// Lookup returns the parsed font for a family.
// The result is cached after first parse.
func Lookup(name string) (*opentype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()

	if f, ok := parsed[name]; ok {
		return f, nil
	}
	data, err := TTF(name)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", name, err)
	}
	parsed[name] = f
	return f, nil
}

// Names returns the available family names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sources))
	for n := range sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
