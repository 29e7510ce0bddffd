// Package forge is the target-execution engine's library surface: a build
// definition registers named targets with a Registry, and Execute wires
// host detection, output sink selection, parameter binding, planning,
// requirement validation and sequential execution into one CLI command.
//
// cmd/forge demonstrates this by building forge itself.
package forge

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forgehq/forge/internal/application/executor"
	"github.com/forgehq/forge/internal/application/planner"
	"github.com/forgehq/forge/internal/application/registry"
	"github.com/forgehq/forge/internal/application/requirements"
	"github.com/forgehq/forge/internal/domain/target"
	"github.com/forgehq/forge/internal/infrastructure/config"
	"github.com/forgehq/forge/internal/infrastructure/hostdetect"
	logginginfra "github.com/forgehq/forge/internal/infrastructure/logging"
	"github.com/forgehq/forge/internal/infrastructure/process"
	"github.com/forgehq/forge/internal/infrastructure/sink"
	"github.com/forgehq/forge/internal/ports"
)

// Register populates r with the build's targets. params is shared with
// every target's closures: it starts empty and is filled by Execute once
// parameter binding completes, before the executor runs, so actions and
// conditions that close over params see bound values without reflection.
// runner is the subprocess contract actions use to invoke external tools;
// ctx is the run's cancellation context, cancelled on SIGINT/SIGTERM, which
// actions that spawn subprocesses must propagate into runner.Start.
type Register func(r *registry.Registry, params map[string]interface{}, runner ports.ProcessRunner, ctx context.Context)

// Config describes one buildable project.
type Config struct {
	// Name is the build's identity, used in logs and the --help banner.
	Name string

	// Register declares the project's targets.
	Register Register

	// Params lists the build's bindable parameters.
	Params []config.ParamSpec

	// DefaultsFile is the optional forge.yaml path. Empty means "forge.yaml"
	// in the working directory.
	DefaultsFile string

	// Processes is injected into target actions that need to spawn external
	// tools. A nil value defaults to process.NewRunner().
	Processes ports.ProcessRunner
}

// Execute parses os.Args, plans and runs the configured build, and returns
// the process exit code. Callers invoke it as os.Exit(forge.Execute(cfg)).
func Execute(cfg Config) int {
	if cfg.DefaultsFile == "" {
		cfg.DefaultsFile = "forge.yaml"
	}
	if cfg.Processes == nil {
		cfg.Processes = process.NewRunner()
	}

	// Boot events (flag parsing hasn't happened yet, so no correlation ID
	// exists) are buffered and replayed once the real logger exists, so
	// nothing said before that point is lost.
	buffer := logginginfra.NewEventBuffer(0)
	bootLogger := logginginfra.NewBufferedLogger(buffer)
	bootLogger.Info(context.Background(), "forge booting", "build", cfg.Name, "pid", os.Getpid())

	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "infrastructure",
	})
	if err != nil {
		fallback := logginginfra.NewNoOpLogger()
		buffer.Flush(fallback)
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	correlationID := logginginfra.GenerateCorrelationID()
	ctx = logginginfra.WithCorrelationID(ctx, correlationID)

	buffer.Flush(appLogger)
	appLogger.Info(ctx, "starting build", "build", cfg.Name, "pid", os.Getpid())

	cmd := newRootCmd(ctx, cfg, appLogger)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

type cliFlags struct {
	targets []string
	skip    skipValue
	strict  bool
	graph   bool
}

func newRootCmd(ctx context.Context, cfg Config, logger ports.Logger) *cobra.Command {
	flags := &cliFlags{}
	paramFlags := make(map[string]*string, len(cfg.Params))

	cmd := &cobra.Command{
		Use:           cfg.Name,
		Short:         fmt.Sprintf("%s target-execution build", cfg.Name),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, cfg, logger, flags, paramFlags, args)
		},
	}

	cmd.Flags().StringArrayVar(&flags.targets, "target", nil, "Target name to invoke (repeatable)")
	cmd.Flags().Var(&flags.skip, "skip", "Skip non-invoked targets: bare flag skips all, or pass a comma-separated name list")
	cmd.Flags().Lookup("skip").NoOptDefVal = ""
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail planning on ambiguous target ordering")
	cmd.Flags().BoolVar(&flags.graph, "graph", false, "Print the dependency graph and exit")

	for _, spec := range cfg.Params {
		if spec.CLIFlag == "" {
			continue
		}
		var v string
		cmd.Flags().StringVar(&v, spec.CLIFlag, "", paramHelp(spec))
		paramFlags[spec.Name] = &v
	}

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		build, _, err := newBuild(cfg, cfg.Processes, ctx)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), renderHelp(cfg, build))
	})

	return cmd
}

func run(ctx context.Context, cfg Config, logger ports.Logger, flags *cliFlags, paramFlags map[string]*string, positional []string) error {
	build, params, err := newBuild(cfg, cfg.Processes, ctx)
	if err != nil {
		return err
	}

	provider := hostdetect.New(hostdetect.OSEnv{}).Detect()
	out := sink.New(sink.NewConsole(os.Stdout), provider)

	if flags.graph {
		out.Write(renderGraph(build))
		return nil
	}

	cliValues := make(map[string]*string, len(paramFlags))
	for name, v := range paramFlags {
		if *v != "" {
			cliValues[name] = v
		}
	}

	fileDefaults, err := config.LoadDefaults(logger, cfg.DefaultsFile)
	if err != nil {
		return err
	}

	binder := config.NewBinder(logger.With("component", "param_binder"))
	for _, spec := range cfg.Params {
		binder.Register(spec)
	}
	resolved, err := binder.Bind(ctx, cliValues, hostdetect.OSEnv{}, fileDefaults)
	if err != nil {
		return err
	}

	invoked := append(append([]string{}, flags.targets...), positional...)

	var skip *planner.Skip
	if flags.skip.set {
		skip = &planner.Skip{Names: flags.skip.names}
	}

	for k, v := range resolved {
		params[k] = v
	}

	list, err := planner.Plan(build, planner.Options{
		Invoked: invoked,
		Skip:    skip,
		Strict:  flags.strict,
	})
	if err != nil {
		return err
	}

	if err := requirements.Validate(executingOnly(list, build.Skipped), params); err != nil {
		return err
	}

	exec := executor.New(out, logger.With("component", "executor"))
	return exec.Run(ctx, list)
}

// newBuild registers cfg's targets into a fresh registry, returning the
// validated aggregate build and the live parameter map its target closures
// were built against. Callers that only need target/dependency metadata
// (help, graph) may discard the map; run fills it with bound values before
// planning.
func newBuild(cfg Config, runner ports.ProcessRunner, ctx context.Context) (*target.Build, map[string]interface{}, error) {
	params := make(map[string]interface{})
	reg := registry.New(cfg.Name)
	cfg.Register(reg, params, runner, ctx)
	build, err := reg.Build()
	if err != nil {
		return nil, nil, err
	}
	return build, params, nil
}

// executingOnly drops targets named in skipped from list, so a skipped
// target's unmet requirements never abort a run that will never invoke its
// action. skipped is build.Skipped, populated by planner.Plan.
func executingOnly(list target.ExecutionList, skipped []string) target.ExecutionList {
	if len(skipped) == 0 {
		return list
	}
	skip := make(map[string]bool, len(skipped))
	for _, name := range skipped {
		skip[name] = true
	}
	filtered := make([]*target.Target, 0, len(list.Targets))
	for _, t := range list.Targets {
		if !skip[t.Name] {
			filtered = append(filtered, t)
		}
	}
	return target.ExecutionList{Targets: filtered}
}

func paramHelp(spec config.ParamSpec) string {
	if len(spec.Enum) > 0 {
		return fmt.Sprintf("one of %s", strings.Join(spec.Enum, ", "))
	}
	return spec.Name
}

func renderGraph(b *target.Build) string {
	names := b.Names()
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		t, _ := b.Find(name)
		deps := t.SortedDependencyNames()
		if len(deps) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s -> %s", name, strings.Join(deps, ", ")))
	}
	return strings.Join(lines, "\n")
}

func renderHelp(cfg Config, b *target.Build) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s targets:\n", cfg.Name)
	names := append([]string{}, b.Names()...)
	sort.Strings(names)
	for _, name := range names {
		t, _ := b.Find(name)
		marker := ""
		if t.IsDefault {
			marker = " (default)"
		}
		deps := t.SortedDependencyNames()
		depText := "none"
		if len(deps) > 0 {
			depText = strings.Join(deps, ", ")
		}
		fmt.Fprintf(&sb, "  %s%s - depends on: %s\n", name, marker, depText)
	}

	if len(cfg.Params) == 0 {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n%s parameters:\n", cfg.Name)
	for _, p := range cfg.Params {
		envNote := ""
		if p.EnvVar != "" {
			envNote = fmt.Sprintf(" (env: %s)", p.EnvVar)
		}
		required := ""
		if p.Required {
			required = " [required]"
		}
		fmt.Fprintf(&sb, "  --%s%s%s%s\n", p.CLIFlag, envNote, required, typeNote(p))
	}
	return sb.String()
}

func typeNote(p config.ParamSpec) string {
	switch p.Type {
	case config.ParamBool:
		return " bool"
	case config.ParamInt:
		return " int"
	case config.ParamNullableInt:
		return " int?"
	case config.ParamEnum:
		return fmt.Sprintf(" enum{%s}", strings.Join(p.Enum, ","))
	default:
		return " string"
	}
}
