// SPDX-License-Identifier: MPL-2.0

package gallery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gallery-cli/internal/extract"
	"gallery-cli/internal/issue"
	"gallery-cli/pkg/contrib"
)

// DiscoverRequirements walks a contrib directory tree and extracts the
// declared requirements of every module file, keyed by module name (the
// file base name without extension).
//
// Test files, doc.go scaffolding and the manifest itself are skipped. An
// extraction failure is fatal for the whole discovery: a module declaring
// metadata the analyzer cannot read is a broken contrib file, not an
// environment hiccup.
func DiscoverRequirements(dir string) (map[string]*extract.RequirementsInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, issue.WrapWithContext(err, "resolve contrib directory", dir)
	}

	requirements := make(map[string]*extract.RequirementsInfo)

	walkErr := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, matching lenient directory
			// walking elsewhere; the manifest decides what must load.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !isModuleFile(d.Name()) {
			return nil
		}

		info, err := extract.File(path)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("extract requirements").
				WithResource(path).
				WithSuggestion("Declare libraryMetadata as a plain literal mapping").
				WithSuggestion("See 'gallery extract " + path + "' to reproduce").
				WithIssue(issue.ExtractionFailedId).
				Wrap(err).
				BuildError()
		}

		requirements[moduleName(d.Name())] = info
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return requirements, nil
}

// ContribDirExists reports whether the contrib directory is present.
func ContribDirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// isModuleFile reports whether a file name is a contrib module candidate.
func isModuleFile(name string) bool {
	if !strings.HasSuffix(name, ".go") {
		return false
	}
	if strings.HasSuffix(name, "_test.go") {
		return false
	}
	if name == "doc.go" || name == contrib.ManifestFileName {
		return false
	}
	return true
}

// moduleName strips the .go extension from a module file name.
func moduleName(filename string) string {
	return strings.TrimSuffix(filename, ".go")
}
