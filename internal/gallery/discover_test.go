// SPDX-License-Identifier: MPL-2.0

package gallery

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestDiscoverRequirements(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"expect_one.go": `package contribmod

type ExpectOne struct{}

var libraryMetadata = map[string]any{
	"requirements": []string{"numpy"},
}
`,
		"expect_two.go": `package contribmod

type ExpectTwo struct{}
`,
		"nested/metric_one.go": `package nested

type MetricOne struct{}

var libraryMetadata = map[string]any{
	"requirements": []string{"scipy", "pandas"},
}
`,
		"expect_one_test.go": `package contribmod`,
		"doc.go":             `package contribmod`,
		"contrib.cue":        `expectations: []`,
		"README.md":          `notes`,
	})

	got, err := DiscoverRequirements(dir)
	if err != nil {
		t.Fatalf("DiscoverRequirements() error = %v", err)
	}

	modules := make([]string, 0, len(got))
	for name := range got {
		modules = append(modules, name)
	}
	sort.Strings(modules)
	want := []string{"expect_one", "expect_two", "metric_one"}
	if !reflect.DeepEqual(modules, want) {
		t.Fatalf("modules = %v, want %v", modules, want)
	}

	if reqs := got["expect_one"].Requirements; !reflect.DeepEqual(reqs, []string{"numpy"}) {
		t.Errorf("expect_one requirements = %v, want [numpy]", reqs)
	}
	if reqs := got["expect_two"].Requirements; len(reqs) != 0 {
		t.Errorf("expect_two requirements = %v, want none", reqs)
	}
	if reqs := got["metric_one"].Requirements; !reflect.DeepEqual(reqs, []string{"scipy", "pandas"}) {
		t.Errorf("metric_one requirements = %v, want [scipy pandas]", reqs)
	}
}

func TestDiscoverRequirements_ExtractionFault(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"expect_bad.go": `package contribmod

type ExpectBad struct{}

var libraryMetadata = computed()
`,
	})

	if _, err := DiscoverRequirements(dir); err == nil {
		t.Error("DiscoverRequirements() error = nil, want extraction fault")
	}
}

func TestDiscoverRequirements_EmptyDir(t *testing.T) {
	got, err := DiscoverRequirements(t.TempDir())
	if err != nil {
		t.Fatalf("DiscoverRequirements() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("modules = %v, want none", got)
	}
}

func TestContribDirExists(t *testing.T) {
	dir := t.TempDir()
	if !ContribDirExists(dir) {
		t.Errorf("ContribDirExists(%q) = false, want true", dir)
	}
	if ContribDirExists(filepath.Join(dir, "absent")) {
		t.Error("ContribDirExists() = true for missing directory")
	}

	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ContribDirExists(file) {
		t.Error("ContribDirExists() = true for regular file")
	}
}

func TestIsModuleFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"expect_one.go", true},
		{"metric_widget.go", true},
		{"expect_one_test.go", false},
		{"doc.go", false},
		{"contrib.cue", false},
		{"README.md", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := isModuleFile(tt.name); got != tt.want {
			t.Errorf("isModuleFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
