// SPDX-License-Identifier: MPL-2.0

package gallery

import (
	"context"
	"fmt"
	"os"

	"gallery-cli/internal/installer"
	"gallery-cli/internal/issue"
	"gallery-cli/pkg/contrib"
	"gallery-cli/pkg/expectation"

	"github.com/charmbracelet/log"
)

type (
	// GalleryInfo maps expectation names to their diagnostics results. It
	// is built incrementally and written once, as JSON, at the end of a
	// run.
	GalleryInfo map[string]expectation.Diagnostics

	// Options selects what a build covers.
	Options struct {
		// IncludeCore reports on expectations registered before the
		// contrib phase.
		IncludeCore bool
		// IncludeContribExperimental enables the contrib
		// scan/install/load phase. When false the contrib directory is
		// never touched and the installer is never invoked.
		IncludeContribExperimental bool
		// ContribDir is the contrib module tree.
		ContribDir string
	}

	// Builder runs gallery builds against an expectation registry.
	Builder struct {
		registry  *expectation.Registry
		loader    expectation.ContribLoader
		installer installer.Installer
		logger    *log.Logger
	}
)

// NewBuilder wires a Builder. A nil logger falls back to a stdout logger.
func NewBuilder(registry *expectation.Registry, loader expectation.ContribLoader, inst installer.Installer, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(os.Stdout)
	}
	return &Builder{
		registry:  registry,
		loader:    loader,
		installer: inst,
		logger:    logger,
	}
}

// Build runs the full gallery pipeline and returns the aggregated
// diagnostics mapping.
func (b *Builder) Build(ctx context.Context, opts Options) (GalleryInfo, error) {
	b.logger.Info("getting base registered expectations list")
	core := b.registry.List()

	if opts.IncludeContribExperimental {
		if err := b.loadContrib(ctx, opts.ContribDir); err != nil {
			return nil, err
		}
	}

	// Contrib loading may have registered additional expectations.
	all := b.registry.List()

	names := all
	if !opts.IncludeCore {
		names = subtract(all, core)
	}

	b.logger.Info("preparing to build gallery metadata", "expectations", len(names))

	info := make(GalleryInfo, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("gallery build cancelled: %w", err)
		}

		b.logger.Debug("running diagnostics for expectation", "expectation", name)
		factory, err := b.registry.Get(name)
		if err != nil {
			return nil, issue.WrapWithContext(err, "resolve expectation", name)
		}

		// Diagnostics failures abort the run: a broken self-check means
		// the expectation cannot be cataloged, and there is no per-module
		// isolation at this layer.
		diagnostics, err := factory().RunDiagnostics()
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("run diagnostics").
				WithResource(name).
				WithSuggestion("Run the module's own tests to reproduce the fault").
				WithSuggestion("Remove the module from contrib.cue to unblock the build").
				WithIssue(issue.DiagnosticsFailedId).
				Wrap(err).
				BuildError()
		}
		info[name] = diagnostics
	}

	return info, nil
}

// loadContrib runs the contrib phase: manifest, requirements discovery,
// per-module install-then-load in manifest order.
func (b *Builder) loadContrib(ctx context.Context, dir string) error {
	if !ContribDirExists(dir) {
		return issue.NewErrorContext().
			WithOperation("locate contrib directory").
			WithResource(dir).
			WithSuggestion("Pass --contrib-dir to point at the contrib tree").
			WithSuggestion("Pass --contrib=false to skip contrib modules").
			WithIssue(issue.ContribDirNotFoundId).
			Wrap(fmt.Errorf("directory does not exist")).
			BuildError()
	}

	manifest, err := contrib.LoadManifest(dir)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("load contrib manifest").
			WithResource(dir).
			WithIssue(issue.ManifestInvalidId).
			Wrap(err).
			BuildError()
	}

	b.logger.Info("finding contrib modules", "dir", dir)
	requirements, err := DiscoverRequirements(dir)
	if err != nil {
		return err
	}
	b.logger.Debug("discovered contrib modules",
		"files", len(requirements), "declared", manifest.ModuleCount())

	for _, group := range manifest.Groups() {
		for _, module := range manifest.Modules(group) {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("contrib loading cancelled: %w", err)
			}

			// Install before load: a module's requirements must be in
			// place by the time its registration code runs.
			if info, ok := requirements[module]; ok && len(info.Requirements) > 0 {
				b.logger.Info("loading dependencies for module", "module", module)
				for _, req := range info.Requirements {
					// The result is deliberately not inspected: a failed
					// install is already logged by the installer, and the
					// remaining requirements and modules still get their
					// chance.
					b.installer.Install(ctx, req)
				}
			}

			b.logger.Debug("loading contrib module", "group", group, "module", module)
			if err := b.loader.Load(group, module); err != nil {
				return issue.WrapWithContext(err, "load contrib module", string(group)+"/"+module)
			}
		}
	}

	return nil
}

// subtract returns the elements of all that are not in exclude, preserving
// order.
func subtract(all, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var result []string
	for _, name := range all {
		if !excluded[name] {
			result = append(result, name)
		}
	}
	return result
}
