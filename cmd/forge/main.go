// Command forge builds forge itself: Clean, Restore, Compile, Test, Pack and
// Publish targets wired through the library's Execute entry point, serving as
// both the project's own build tool and a worked example of the fluent
// target declaration API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/forgehq/forge/internal/application/registry"
	"github.com/forgehq/forge/internal/domain/target"
	"github.com/forgehq/forge/internal/infrastructure/config"
	"github.com/forgehq/forge/internal/ports"

	"github.com/forgehq/forge"
)

func main() {
	os.Exit(forge.Execute(forge.Config{
		Name:     "forge",
		Register: registerTargets,
		Params: []config.ParamSpec{
			{
				Name:     "Configuration",
				CLIFlag:  "configuration",
				EnvVar:   "CONFIGURATION",
				Type:     config.ParamEnum,
				Enum:     []string{"Debug", "Release"},
				Default:  "Debug",
				Required: false,
			},
			{
				Name:    "Solution",
				CLIFlag: "solution",
				EnvVar:  "FORGE_SOLUTION",
				Type:    config.ParamString,
				Default: ".",
			},
			{
				Name:     "NugetApiKey",
				CLIFlag:  "nuget-api-key",
				EnvVar:   "NUGET_API_KEY",
				Type:     config.ParamString,
				Required: false,
			},
		},
	}))
}

func registerTargets(r *registry.Registry, params map[string]interface{}, runner ports.ProcessRunner, ctx context.Context) {
	clean := target.New("Clean").
		Executes(runCommand(ctx, runner, "git", "clean", "-xdf")).
		Build()
	r.Register(clean)

	restore := target.New("Restore").
		DependsOn(clean).
		Executes(runCommand(ctx, runner, "go", "mod", "download")).
		Build()
	r.Register(restore)

	compile := target.New("Compile").
		DependsOn(restore).
		Executes(func() error {
			configuration, _ := params["Configuration"].(string)
			args := []string{"build", "./..."}
			if configuration == "Release" {
				args = append(args, "-ldflags=-s -w")
			}
			return run(ctx, runner, "go", args...)
		}).
		Build()
	r.Register(compile)

	test := target.New("Test").
		DependsOn(compile).
		Default().
		Executes(runCommand(ctx, runner, "go", "test", "./...")).
		Build()
	r.Register(test)

	pack := target.New("Pack").
		DependsOn(test).
		OnlyWhen(func() bool {
			configuration, _ := params["Configuration"].(string)
			return configuration == "Release"
		}).
		Executes(runCommand(ctx, runner, "go", "build", "-o", "dist/forge", "./cmd/forge")).
		Build()
	r.Register(pack)

	publish := target.New("Publish").
		DependsOn(pack).
		Requires("NugetApiKey").
		Executes(func() error {
			apiKey, _ := params["NugetApiKey"].(string)
			fmt.Printf("publishing dist/forge using key ending %s\n", lastFour(apiKey))
			return nil
		}).
		Build()
	r.Register(publish)
}

func runCommand(ctx context.Context, runner ports.ProcessRunner, path string, args ...string) func() error {
	return func() error {
		return run(ctx, runner, path, args...)
	}
}

func run(ctx context.Context, runner ports.ProcessRunner, path string, args ...string) error {
	handle, err := runner.Start(ctx, ports.ProcessSpec{
		Path:   path,
		Args:   args,
		Stdout: func(line string) { fmt.Println(line) },
		Stderr: func(line string) { fmt.Fprintln(os.Stderr, line) },
	})
	if err != nil {
		return err
	}
	code, err := handle.Wait()
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("%s exited with code %d", path, code)
	}
	return nil
}

func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
