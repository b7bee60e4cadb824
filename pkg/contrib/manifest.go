// SPDX-License-Identifier: MPL-2.0

package contrib

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gallery-cli/pkg/cueutil"
	"gallery-cli/pkg/expectation"
)

// ManifestFileName is the manifest file name inside a contrib directory.
const ManifestFileName = "contrib.cue"

//go:embed manifest_schema.cue
var manifestSchema []byte

// Manifest declares which contrib modules to load per group. Slices preserve
// manifest order; loading order is the declaration order.
type Manifest struct {
	// Expectations are contrib expectation module names.
	Expectations []string `json:"expectations"`
	// Metrics are contrib metric module names.
	Metrics []string `json:"metrics"`
}

// LoadManifest reads and validates the contrib.cue manifest of the given
// contrib directory.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contrib manifest: %w", err)
	}
	return ParseManifest(path, data)
}

// ParseManifest validates manifest bytes against the embedded schema and
// decodes them. The filename is used in error messages.
func ParseManifest(filename string, data []byte) (*Manifest, error) {
	m, err := cueutil.ParseAndDecode[Manifest](manifestSchema, data, "#Manifest",
		cueutil.WithFilename(filename),
		cueutil.WithConcrete(false))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Modules returns the module list for a group. Unknown groups yield nil.
func (m *Manifest) Modules(group expectation.Group) []string {
	switch group {
	case expectation.GroupExpectations:
		return m.Expectations
	case expectation.GroupMetrics:
		return m.Metrics
	}
	return nil
}

// Groups returns the manifest groups in load order: expectations first,
// then metrics, matching the original gallery build sequence.
func (m *Manifest) Groups() []expectation.Group {
	return []expectation.Group{expectation.GroupExpectations, expectation.GroupMetrics}
}

// ModuleCount returns the total number of declared modules across groups.
func (m *Manifest) ModuleCount() int {
	return len(m.Expectations) + len(m.Metrics)
}
