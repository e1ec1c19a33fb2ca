package seed

import (
	"bytes"
	_ "embed"
)

//go:embed library.yaml
var defaultFixture []byte

// Default returns the bundled starter catalog.
func Default() (Fixture, error) {
	return Parse(bytes.NewReader(defaultFixture))
}
