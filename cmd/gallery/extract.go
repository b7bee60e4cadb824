// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"io"

	"gallery-cli/internal/extract"
	"gallery-cli/internal/issue"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE...",
	Short: "Extract declared requirements from module files",
	Long: `Extract declared requirements from module files.

Runs the static extractor on each file and prints the result as JSON.
No module code is executed and no requirement is installed; this is the
same analysis the build command runs over the contrib directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.OutOrStdout(), args)
	},
}

// extractReport is one file's extraction result in the JSON output.
type extractReport struct {
	File         string   `json:"file"`
	Classes      []string `json:"classes"`
	Requirements []string `json:"requirements"`
}

func runExtract(out io.Writer, files []string) error {
	reports := make([]extractReport, 0, len(files))
	for _, file := range files {
		info, err := extract.File(file)
		if err != nil {
			return fatalError(issue.NewErrorContext().
				WithOperation("extract requirements").
				WithResource(file).
				WithIssue(issue.ExtractionFailedId).
				Wrap(err).
				BuildError())
		}
		reports = append(reports, extractReport{
			File:         file,
			Classes:      info.Classes,
			Requirements: info.Requirements,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
