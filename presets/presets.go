// Package presets holds a small table of named device sizes, expressed in
// sfs's 4 KiB blocks, for callers that want to Format a memdisk.Disk (or any
// Disk) of a recognizable size without hand-computing a block count.
package presets

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry describes one named device size.
type Geometry struct {
	Name   string `csv:"name"`
	Blocks uint32 `csv:"blocks"`
	Notes  string `csv:"notes"`
}

//go:embed geometries.csv
var geometriesRawCSV string

var geometries map[string]Geometry

// Lookup returns the named Geometry, or an error if no preset by that name
// exists.
func Lookup(name string) (Geometry, error) {
	g, ok := geometries[name]
	if ok {
		return g, nil
	}
	return Geometry{}, fmt.Errorf("presets: no geometry preset named %q", name)
}

// Names returns the names of every registered preset.
func Names() []string {
	names := make([]string, 0, len(geometries))
	for name := range geometries {
		names = append(names, name)
	}
	return names
}

func init() {
	geometries = make(map[string]Geometry)
	reader := strings.NewReader(geometriesRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Geometry) error {
		if _, exists := geometries[row.Name]; exists {
			return fmt.Errorf("presets: duplicate geometry named %q", row.Name)
		}
		geometries[row.Name] = row
		return nil
	})
	if err != nil && err != io.EOF {
		panic(err)
	}
}
