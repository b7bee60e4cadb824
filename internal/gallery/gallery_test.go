// SPDX-License-Identifier: MPL-2.0

package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gallery-cli/internal/installer"
	"gallery-cli/internal/issue"
	"gallery-cli/pkg/expectation"

	"github.com/charmbracelet/log"
)

type stubImpl struct {
	name string
	err  error
}

func (s *stubImpl) Name() string { return s.name }

func (s *stubImpl) RunDiagnostics() (expectation.Diagnostics, error) {
	if s.err != nil {
		return nil, s.err
	}
	return expectation.Diagnostics{"expectation": s.name, "success": true}, nil
}

func stubFactory(name string) expectation.Factory {
	return func() expectation.Implementation { return &stubImpl{name: name} }
}

// recordingInstaller implements installer.Installer and records every
// requirement it is asked for, optionally failing some of them.
type recordingInstaller struct {
	requirements []string
	failFor      map[string]bool
	events       *[]string
}

func (r *recordingInstaller) Install(_ context.Context, requirement string) *installer.Result {
	r.requirements = append(r.requirements, requirement)
	if r.events != nil {
		*r.events = append(*r.events, "install "+requirement)
	}
	if r.failFor[requirement] {
		return &installer.Result{ExitCode: 1, ErrOutput: "no matching distribution"}
	}
	return &installer.Result{}
}

// recordingLoader wraps a StaticLoader and records load order.
type recordingLoader struct {
	inner  *expectation.StaticLoader
	events *[]string
}

func (r *recordingLoader) Load(group expectation.Group, module string) error {
	if r.events != nil {
		*r.events = append(*r.events, fmt.Sprintf("load %s/%s", group, module))
	}
	return r.inner.Load(group, module)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeContrib creates a contrib directory with the given manifest and
// module files.
func writeContrib(t *testing.T, manifest string, modules map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "contrib.cue"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	for name, src := range modules {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatalf("write module %s: %v", name, err)
		}
	}
	return dir
}

const moduleWithReqs = `package contribmod

type ExpectValuesPositive struct{}

var libraryMetadata = map[string]any{
	"requirements": []string{"numpy>=1.20", "pandas"},
}
`

func TestBuild_CoreOnlyNeverTouchesContrib(t *testing.T) {
	registry := expectation.NewRegistry()
	registry.MustRegister("expect_core_a", stubFactory("expect_core_a"))
	registry.MustRegister("expect_core_b", stubFactory("expect_core_b"))

	inst := &recordingInstaller{}
	loader := expectation.NewStaticLoader(registry)
	b := NewBuilder(registry, loader, inst, quietLogger())

	info, err := b.Build(context.Background(), Options{
		IncludeCore:                true,
		IncludeContribExperimental: false,
		// Deliberately nonexistent: contrib must never be accessed.
		ContribDir: filepath.Join(t.TempDir(), "absent"),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(inst.requirements) != 0 {
		t.Errorf("installer invoked %d times, want 0", len(inst.requirements))
	}

	want := []string{"expect_core_a", "expect_core_b"}
	got := make([]string, 0, len(info))
	for name := range info {
		got = append(got, name)
	}
	if len(got) != len(want) {
		t.Fatalf("gallery keys = %v, want %v", got, want)
	}
	for _, name := range want {
		if _, ok := info[name]; !ok {
			t.Errorf("gallery missing %s", name)
		}
	}
}

func TestBuild_ContribInstallsBeforeLoading(t *testing.T) {
	dir := writeContrib(t, `expectations: ["expect_values_positive"]
metrics: []
`, map[string]string{"expect_values_positive.go": moduleWithReqs})

	registry := expectation.NewRegistry()
	static := expectation.NewStaticLoader(registry)
	static.Add(expectation.GroupExpectations, "expect_values_positive", func(r *expectation.Registry) error {
		return r.Register("expect_values_positive", stubFactory("expect_values_positive"))
	})

	var events []string
	inst := &recordingInstaller{events: &events}
	loader := &recordingLoader{inner: static, events: &events}

	b := NewBuilder(registry, loader, inst, quietLogger())
	info, err := b.Build(context.Background(), Options{
		IncludeCore:                true,
		IncludeContribExperimental: true,
		ContribDir:                 dir,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantEvents := []string{
		"install numpy>=1.20",
		"install pandas",
		"load expectations/expect_values_positive",
	}
	if !reflect.DeepEqual(events, wantEvents) {
		t.Errorf("events = %v, want %v", events, wantEvents)
	}

	if _, ok := info["expect_values_positive"]; !ok {
		t.Errorf("gallery missing contrib expectation: %v", info)
	}
}

func TestBuild_InstallFailureDoesNotAbort(t *testing.T) {
	dir := writeContrib(t, `expectations: ["expect_alpha", "expect_beta"]
metrics: []
`, map[string]string{
		"expect_alpha.go": `package contribmod

type ExpectAlpha struct{}

var libraryMetadata = map[string]any{
	"requirements": []string{"brokenlib==0.0.1", "numpy"},
}
`,
		"expect_beta.go": `package contribmod

type ExpectBeta struct{}

var libraryMetadata = map[string]any{
	"requirements": []string{"scipy"},
}
`,
	})

	registry := expectation.NewRegistry()
	static := expectation.NewStaticLoader(registry)
	for _, name := range []string{"expect_alpha", "expect_beta"} {
		module := name
		static.Add(expectation.GroupExpectations, module, func(r *expectation.Registry) error {
			return r.Register(module, stubFactory(module))
		})
	}

	inst := &recordingInstaller{failFor: map[string]bool{"brokenlib==0.0.1": true}}
	b := NewBuilder(registry, static, inst, quietLogger())

	info, err := b.Build(context.Background(), Options{
		IncludeCore:                true,
		IncludeContribExperimental: true,
		ContribDir:                 dir,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Every requirement after the failed one is still attempted, and every
	// module is still loaded.
	wantReqs := []string{"brokenlib==0.0.1", "numpy", "scipy"}
	if !reflect.DeepEqual(inst.requirements, wantReqs) {
		t.Errorf("requirements = %v, want %v", inst.requirements, wantReqs)
	}
	if len(info) != 2 {
		t.Errorf("gallery has %d entries, want 2: %v", len(info), info)
	}
}

func TestBuild_ExcludeCore(t *testing.T) {
	dir := writeContrib(t, `expectations: ["expect_contrib_only"]
metrics: []
`, map[string]string{"expect_contrib_only.go": `package contribmod

type ExpectContribOnly struct{}
`})

	registry := expectation.NewRegistry()
	registry.MustRegister("expect_core", stubFactory("expect_core"))

	static := expectation.NewStaticLoader(registry)
	static.Add(expectation.GroupExpectations, "expect_contrib_only", func(r *expectation.Registry) error {
		return r.Register("expect_contrib_only", stubFactory("expect_contrib_only"))
	})

	b := NewBuilder(registry, static, &recordingInstaller{}, quietLogger())
	info, err := b.Build(context.Background(), Options{
		IncludeCore:                false,
		IncludeContribExperimental: true,
		ContribDir:                 dir,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(info) != 1 {
		t.Fatalf("gallery = %v, want only the contrib expectation", info)
	}
	if _, ok := info["expect_contrib_only"]; !ok {
		t.Errorf("gallery = %v, missing expect_contrib_only", info)
	}
}

func TestBuild_ExtractionFailureAborts(t *testing.T) {
	dir := writeContrib(t, `expectations: []
metrics: []
`, map[string]string{"expect_bad.go": `package contribmod

type ExpectBad struct{}

var libraryMetadata = buildMetadata()
`})

	registry := expectation.NewRegistry()
	b := NewBuilder(registry, expectation.NewStaticLoader(registry), &recordingInstaller{}, quietLogger())

	_, err := b.Build(context.Background(), Options{
		IncludeContribExperimental: true,
		ContribDir:                 dir,
	})
	if err == nil {
		t.Fatal("Build() error = nil, want extraction fault")
	}
	if !strings.Contains(err.Error(), "extract requirements") {
		t.Errorf("error = %v, want extraction context", err)
	}
	assertIssueId(t, err, issue.ExtractionFailedId)
}

// assertIssueId checks that a fatal error links the given catalog entry.
func assertIssueId(t *testing.T, err error, want issue.Id) {
	t.Helper()
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %T, want *issue.ActionableError", err)
	}
	if ae.IssueId != want {
		t.Errorf("IssueId = %d, want %d", ae.IssueId, want)
	}
}

func TestBuild_MissingContribDirAborts(t *testing.T) {
	registry := expectation.NewRegistry()
	b := NewBuilder(registry, expectation.NewStaticLoader(registry), &recordingInstaller{}, quietLogger())

	_, err := b.Build(context.Background(), Options{
		IncludeContribExperimental: true,
		ContribDir:                 filepath.Join(t.TempDir(), "absent"),
	})
	if err == nil {
		t.Fatal("Build() error = nil, want missing-directory fault")
	}
	assertIssueId(t, err, issue.ContribDirNotFoundId)
}

func TestBuild_MissingManifestAborts(t *testing.T) {
	registry := expectation.NewRegistry()
	b := NewBuilder(registry, expectation.NewStaticLoader(registry), &recordingInstaller{}, quietLogger())

	_, err := b.Build(context.Background(), Options{
		IncludeContribExperimental: true,
		ContribDir:                 t.TempDir(), // exists, but no contrib.cue
	})
	if err == nil {
		t.Fatal("Build() error = nil, want manifest fault")
	}
	assertIssueId(t, err, issue.ManifestInvalidId)
}

func TestBuild_UnknownModuleAborts(t *testing.T) {
	dir := writeContrib(t, `expectations: ["expect_ghost"]
metrics: []
`, nil)

	registry := expectation.NewRegistry()
	b := NewBuilder(registry, expectation.NewStaticLoader(registry), &recordingInstaller{}, quietLogger())

	_, err := b.Build(context.Background(), Options{
		IncludeContribExperimental: true,
		ContribDir:                 dir,
	})
	if !errors.Is(err, expectation.ErrUnknownContribModule) {
		t.Errorf("Build() error = %v, want ErrUnknownContribModule", err)
	}
}

func TestBuild_DiagnosticsFailureAborts(t *testing.T) {
	registry := expectation.NewRegistry()
	registry.MustRegister("expect_faulty", func() expectation.Implementation {
		return &stubImpl{name: "expect_faulty", err: errors.New("self-check panicked")}
	})

	b := NewBuilder(registry, expectation.NewStaticLoader(registry), &recordingInstaller{}, quietLogger())
	_, err := b.Build(context.Background(), Options{IncludeCore: true})
	if err == nil {
		t.Fatal("Build() error = nil, want diagnostics fault")
	}
	if !strings.Contains(err.Error(), "run diagnostics") {
		t.Errorf("error = %v, want diagnostics context", err)
	}
	assertIssueId(t, err, issue.DiagnosticsFailedId)
}

func TestBuild_Cancellation(t *testing.T) {
	registry := expectation.NewRegistry()
	registry.MustRegister("expect_core", stubFactory("expect_core"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(registry, expectation.NewStaticLoader(registry), &recordingInstaller{}, quietLogger())
	if _, err := b.Build(ctx, Options{IncludeCore: true}); err == nil {
		t.Error("Build() error = nil, want cancellation")
	}
}

func TestBuild_MetricsGroupLoadsAfterExpectations(t *testing.T) {
	dir := writeContrib(t, `expectations: ["expect_one"]
metrics: ["metric_one"]
`, map[string]string{
		"expect_one.go": `package contribmod

type ExpectOne struct{}
`,
		"metric_one.go": `package contribmod

type MetricOne struct{}
`,
	})

	registry := expectation.NewRegistry()
	static := expectation.NewStaticLoader(registry)
	static.Add(expectation.GroupExpectations, "expect_one", func(r *expectation.Registry) error {
		return r.Register("expect_one", stubFactory("expect_one"))
	})
	static.Add(expectation.GroupMetrics, "metric_one", func(r *expectation.Registry) error {
		return r.Register("metric_one", stubFactory("metric_one"))
	})

	var events []string
	loader := &recordingLoader{inner: static, events: &events}

	b := NewBuilder(registry, loader, &recordingInstaller{events: &events}, quietLogger())
	if _, err := b.Build(context.Background(), Options{
		IncludeCore:                true,
		IncludeContribExperimental: true,
		ContribDir:                 dir,
	}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"load expectations/expect_one", "load metrics/metric_one"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}
