package forge

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/forgehq/forge/internal/application/registry"
	"github.com/forgehq/forge/internal/domain/target"
	"github.com/forgehq/forge/internal/infrastructure/config"
	logginginfra "github.com/forgehq/forge/internal/infrastructure/logging"
	"github.com/forgehq/forge/internal/ports"
)

// nilLogger is a typed-nil *logginginfra.Logger: safe to call through
// ports.Logger since every method guards against a nil receiver.
var nilLogger ports.Logger = (*logginginfra.Logger)(nil)

func chainRegister(r *registry.Registry, params map[string]interface{}, runner ports.ProcessRunner, ctx context.Context) {
	clean := target.New("Clean").Executes(func() error { return nil }).Build()
	restore := target.New("Restore").DependsOn(clean).Executes(func() error { return nil }).Build()
	compile := target.New("Compile").DependsOn(restore).Executes(func() error {
		params["ran_compile"] = true
		return nil
	}).Build()
	test := target.New("Test").DependsOn(compile).Default().Executes(func() error { return nil }).Build()

	r.Register(clean)
	r.Register(restore)
	r.Register(compile)
	r.Register(test)
}

func TestSkipValue_AbsentLeavesUnset(t *testing.T) {
	var s skipValue
	if s.set {
		t.Fatal("expected skipValue to start unset")
	}
}

func TestSkipValue_BareFlagMeansSkipAll(t *testing.T) {
	var s skipValue
	if err := s.Set(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.set {
		t.Fatal("expected set=true")
	}
	if len(s.names) != 0 {
		t.Fatalf("expected empty names (skip all), got %v", s.names)
	}
}

func TestSkipValue_NamedListSkipsOnlyThose(t *testing.T) {
	var s skipValue
	if err := s.Set("Compile, Test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.names) != 2 || s.names[0] != "Compile" || s.names[1] != "Test" {
		t.Fatalf("unexpected names: %v", s.names)
	}
}

func TestNewBuild_SharesLiveParamsMapWithClosures(t *testing.T) {
	cfg := Config{Name: "test-build", Register: chainRegister}
	build, params, err := newBuild(cfg, nil, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	compile, ok := build.Find("Compile")
	if !ok {
		t.Fatal("expected Compile target to be registered")
	}
	for _, action := range compile.Actions {
		if err := action(); err != nil {
			t.Fatalf("unexpected action error: %v", err)
		}
	}

	if params["ran_compile"] != true {
		t.Fatal("expected action to have mutated the shared params map")
	}
}

func TestRenderGraph_OrdersByNameAndOmitsLeaves(t *testing.T) {
	cfg := Config{Name: "test-build", Register: chainRegister}
	build, _, err := newBuild(cfg, nil, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	graph := renderGraph(build)
	if !strings.Contains(graph, "Restore -> Clean") {
		t.Fatalf("expected Restore -> Clean edge, got:\n%s", graph)
	}
	if !strings.Contains(graph, "Test -> Compile") {
		t.Fatalf("expected Test -> Compile edge, got:\n%s", graph)
	}
	if strings.Contains(graph, "Clean ->") {
		t.Fatalf("expected Clean (no dependencies) to be omitted, got:\n%s", graph)
	}
}

func TestRenderHelp_ListsDefaultMarkerAndParameters(t *testing.T) {
	cfg := Config{
		Name:     "test-build",
		Register: chainRegister,
		Params: []config.ParamSpec{
			{Name: "Configuration", CLIFlag: "configuration", EnvVar: "CONFIGURATION", Type: config.ParamEnum, Enum: []string{"Debug", "Release"}, Required: true},
		},
	}
	build, _, err := newBuild(cfg, nil, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := renderHelp(cfg, build)
	if !strings.Contains(out, "Test (default) - depends on: Compile") {
		t.Fatalf("expected Test to show as default, got:\n%s", out)
	}
	if !strings.Contains(out, "--configuration (env: CONFIGURATION) [required] enum{Debug,Release}") {
		t.Fatalf("expected parameter line, got:\n%s", out)
	}
}

func TestExecutingOnly_DropsSkippedTargets(t *testing.T) {
	clean := target.New("Clean").Executes(func() error { return nil }).Build()
	publish := target.New("Publish").DependsOn(clean).Requires("NugetApiKey").Executes(func() error { return nil }).Build()
	list := target.ExecutionList{Targets: []*target.Target{clean, publish}}

	filtered := executingOnly(list, []string{"Publish"})
	if len(filtered.Targets) != 1 || filtered.Targets[0].Name != "Clean" {
		t.Fatalf("expected only Clean to remain, got %v", filtered.Targets)
	}
}

func TestExecutingOnly_NoSkipsReturnsListUnchanged(t *testing.T) {
	clean := target.New("Clean").Executes(func() error { return nil }).Build()
	list := target.ExecutionList{Targets: []*target.Target{clean}}

	filtered := executingOnly(list, nil)
	if len(filtered.Targets) != 1 {
		t.Fatalf("expected list unchanged, got %v", filtered.Targets)
	}
}

func TestRun_SkippedTargetsUnmetRequirementsDoNotFailBuild(t *testing.T) {
	// Deploy's dependency closure pulls in Publish, which requires an unset
	// NugetApiKey. Naming Publish in an explicit --skip list must exempt its
	// requirement even though it remains in the execution list.
	register := func(r *registry.Registry, params map[string]interface{}, runner ports.ProcessRunner, ctx context.Context) {
		clean := target.New("Clean").Executes(func() error { return nil }).Build()
		publish := target.New("Publish").DependsOn(clean).Requires("NugetApiKey").Executes(func() error { return nil }).Build()
		deploy := target.New("Deploy").DependsOn(publish).Executes(func() error { return nil }).Build()
		r.Register(clean)
		r.Register(publish)
		r.Register(deploy)
	}
	cfg := Config{Name: "test-build", Register: register}

	flags := &cliFlags{targets: []string{"Deploy"}, skip: skipValue{set: true, names: []string{"Publish"}}}
	if err := run(context.Background(), cfg, nilLogger, flags, nil, nil); err != nil {
		t.Fatalf("expected Publish's unmet NugetApiKey requirement to be exempted once skipped, got %v", err)
	}
}

func TestRun_GraphFlagPrintsAndSkipsPlanning(t *testing.T) {
	cfg := Config{Name: "test-build", Register: chainRegister}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	original := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = original }()

	flags := &cliFlags{graph: true}
	runErr := run(context.Background(), cfg, nil, flags, nil, nil)

	w.Close()
	os.Stdout = original
	captured, _ := io.ReadAll(r)

	if runErr != nil {
		t.Fatalf("unexpected error: %v", runErr)
	}
	if !strings.Contains(string(captured), "Restore -> Clean") {
		t.Fatalf("expected graph output, got: %q", string(captured))
	}
}
