// internal/i18n/default.go
//
// Process-wide catalog.
//
// Initialization behavior (Init):
//   1. If a path is given (CATALOG_FILE), load the catalog from that file.
//   2. Otherwise use the catalog embedded in the assets package.
//
// Initialization is run once (sync.Once); later paths are ignored.

package i18n

import (
	"fmt"
	"os"
	"sync"

	"github.com/robalobadob/minesweeper/assets"
)

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initialErr error
)

// Init loads the process-wide catalog exactly once.
func Init(path string) (*Catalog, error) {
	initOnce.Do(func() {
		var (
			data []byte
			err  error
		)
		if path != "" {
			data, err = os.ReadFile(path)
		} else {
			data, err = assets.Locales()
		}
		if err != nil {
			initialErr = fmt.Errorf("read catalog: %w", err)
			return
		}
		defaultCat, initialErr = Parse(data)
	})
	return defaultCat, initialErr
}

// Default returns the process-wide catalog, loading the embedded one if Init
// has not run. It panics if the embedded catalog is invalid.
func Default() *Catalog {
	c, err := Init("")
	if err != nil {
		panic(err)
	}
	return c
}
