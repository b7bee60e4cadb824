// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Manifest: {
	name: string
	modules: [...string]
	limit?: int & >=0
}
`

type testManifest struct {
	Name    string   `json:"name"`
	Modules []string `json:"modules"`
	Limit   int      `json:"limit,omitempty"`
}

func TestParseAndDecode_Valid(t *testing.T) {
	data := []byte(`
name: "experimental"
modules: ["expect_alpha", "expect_beta"]
`)

	got, err := ParseAndDecode[testManifest]([]byte(testSchema), data, "#Manifest",
		WithFilename("contrib.cue"), WithConcrete(false))
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}

	if got.Name != "experimental" {
		t.Errorf("Name = %s, want experimental", got.Name)
	}
	if len(got.Modules) != 2 || got.Modules[0] != "expect_alpha" {
		t.Errorf("Modules = %v", got.Modules)
	}
}

func TestParseAndDecode_SchemaViolation(t *testing.T) {
	data := []byte(`
name: "experimental"
modules: ["expect_alpha"]
limit: -1
`)

	_, err := ParseAndDecode[testManifest]([]byte(testSchema), data, "#Manifest",
		WithFilename("contrib.cue"), WithConcrete(false))
	if err == nil {
		t.Fatal("ParseAndDecode() error = nil, want schema violation")
	}
	if !strings.Contains(err.Error(), "contrib.cue") {
		t.Errorf("error %v does not name the input file", err)
	}
}

func TestParseAndDecode_SyntaxError(t *testing.T) {
	_, err := ParseAndDecode[testManifest]([]byte(testSchema), []byte(`name: "unclosed`), "#Manifest")
	if err == nil {
		t.Error("ParseAndDecode() error = nil, want syntax error")
	}
}

func TestParseAndDecode_UnknownSchemaPath(t *testing.T) {
	_, err := ParseAndDecode[testManifest]([]byte(testSchema), []byte(`name: "x"`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("error = %v, want unknown schema path complaint", err)
	}
}

func TestParseAndDecode_FileSizeLimit(t *testing.T) {
	data := []byte(`name: "` + strings.Repeat("a", 64) + `", modules: []`)

	_, err := ParseAndDecode[testManifest]([]byte(testSchema), data, "#Manifest",
		WithMaxFileSize(16), WithFilename("contrib.cue"))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error = %v, want size limit error", err)
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"modules"}, "modules"},
		{[]string{"modules", "0"}, "modules[0]"},
		{[]string{"installer", "timeout"}, "installer.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}
