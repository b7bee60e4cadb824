// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ContribDirNotFoundId Id = iota + 1
	ManifestInvalidId
	ExtractionFailedId
	InstallerShellNotFoundId
	DiagnosticsFailedId
	ConfigLoadFailedId
	OutputWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // pointers into the gallery docs
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	contribDirNotFoundIssue = &Issue{
		id: ContribDirNotFoundId,
		mdMsg: `
# Contrib directory not found!

We could not find the contrib directory to scan for experimental modules.

## Things you can try:
- Point the build at the right tree:
~~~
$ gallery build --contrib-dir ./contrib/experimental
~~~
- Or set it once in your config file:
~~~cue
contrib_dir: "./contrib/experimental"
~~~
- Or skip contrib modules entirely:
~~~
$ gallery build --contrib=false
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid contrib manifest!

The contrib.cue manifest failed schema validation.

## Common issues:
- Module names must be lower_snake_case (they mirror file base names)
- Group lists must be sequences of strings
- CUE syntax errors (missing quotes, brackets)

## Example manifest:
~~~cue
expectations: [
	"expect_column_values_to_be_normal",
	"expect_table_row_count_nonzero",
]
metrics: [
	"column_skewness",
]
~~~`,
	}

	extractionFailedIssue = &Issue{
		id: ExtractionFailedId,
		mdMsg: `
# Requirements extraction failed!

A contrib module declares its libraryMetadata in a form the static analyzer
cannot evaluate. Metadata must be a plain literal so it can be read without
executing the module.

## Common issues:
- libraryMetadata built by a function call or variable reference
- A requirements entry that is not a string
- The metadata value is not a mapping

## Example declaration:
~~~go
var libraryMetadata = map[string]any{
	"requirements": []string{"numpy>=1.20", "pandas"},
}
~~~`,
	}

	installerShellNotFoundIssue = &Issue{
		id: InstallerShellNotFoundId,
		mdMsg: `
# No usable shell for the installer!

Requirement installation shells out through bash, but no shell was found.

## Things you can try:
- Install bash, or set a shell via $SHELL
- Switch to the built-in virtual shell:
~~~cue
installer: shell: "virtual"
~~~`,
	}

	diagnosticsFailedIssue = &Issue{
		id: DiagnosticsFailedId,
		mdMsg: `
# Diagnostics run failed!

An expectation's self-diagnostic faulted. Diagnostics failures abort the
whole build: a broken self-check means the module cannot be cataloged.

## Things you can try:
- Run the module's own tests to reproduce the fault
- Temporarily remove the module from contrib.cue to unblock the build`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your gallery config file could not be loaded or validated.

## Things you can try:
- Check the file for CUE syntax errors
- Show the resolved configuration:
~~~
$ gallery config show
~~~`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write the gallery artifact!

The build finished but the JSON artifact could not be written.

## Things you can try:
- Check that the output directory exists and is writable
- Choose another location:
~~~
$ gallery build --output ./out/expectation_library.json
~~~`,
	}

	issues = map[Id]*Issue{
		ContribDirNotFoundId:     contribDirNotFoundIssue,
		ManifestInvalidId:        manifestInvalidIssue,
		ExtractionFailedId:       extractionFailedIssue,
		InstallerShellNotFoundId: installerShellNotFoundIssue,
		DiagnosticsFailedId:      diagnosticsFailedIssue,
		ConfigLoadFailedId:       configLoadFailedIssue,
		OutputWriteFailedId:      outputWriteFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
