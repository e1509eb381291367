// stagedock – two-stage container environment compiler
//
// Usage:
//
//	stagedock init [dir]      – scaffold a new project directory
//	stagedock validate [dir]  – validate the project configuration
//	stagedock merge [dir]     – synthesize the merged build artifacts
//	stagedock mirrors         – list the known APT mirror keys
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stagedock/stagedock/internal/compose"
	"github.com/stagedock/stagedock/internal/config"
	"github.com/stagedock/stagedock/internal/log"
	"github.com/stagedock/stagedock/internal/merge"
	"github.com/stagedock/stagedock/internal/paths"
	"github.com/stagedock/stagedock/internal/project"
)

func main() {
	root := &cobra.Command{
		Use:   "stagedock",
		Short: "Two-stage container environment compiler",
		Long: `stagedock – compile a declarative two-stage container environment into
concrete build artifacts.

A project describes a system layer (stage-1: base image, APT sources, proxy,
SSH accounts) and an application layer (stage-2: storage, lifecycle scripts)
built FROM stage-1's output. The merge command turns the resolved service
map plus the stage Dockerfile templates into a single multi-stage Dockerfile,
an environment file, and portable build/run shell scripts.`,
	}

	root.AddCommand(initCmd(), validateCmd(), mergeCmd(), mirrorsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// projectDirArg resolves the optional positional project directory argument.
func projectDirArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}

// ── init ──────────────────────────────────────────────────────────────────────

func initCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new project directory",
		Long: `Creates the project skeleton in the given directory (default "."):
a commented stagedock.yaml, the stage-1/stage-2 Dockerfile templates under
templates/, and the per-stage installation directories.

The project name defaults to a sanitized form of the directory name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInit(projectDirArg(args), name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (default: derived from the directory)")
	return cmd
}

func runInit(dir, name string) error {
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve project dir: %w", err)
		}
		name = project.DefaultName(abs)
	}
	if err := project.Scaffold(dir, name); err != nil {
		return err
	}
	log.Ok(fmt.Sprintf("project %q initialised in %s", name, dir))
	log.Info(fmt.Sprintf("edit %s, then run: stagedock validate %s", filepath.Join(dir, paths.ConfigFile), dir))
	return nil
}

// ── validate ──────────────────────────────────────────────────────────────────

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate the project configuration",
		Long: `Loads <dir>/stagedock.yaml, validates every stage facet, and reports all
problems at once. Exits non-zero when the configuration is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(projectDirArg(args))
		},
	}
}

func runValidate(dir string) error {
	cfgPath := filepath.Join(dir, paths.ConfigFile)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	log.Ok(fmt.Sprintf("config ok: project %q (stage-1 %s, stage-2 %s)",
		cfg.Name, cfg.Stage1.Image.Output, cfg.Stage2.Image.Output))
	return nil
}

// ── merge ─────────────────────────────────────────────────────────────────────

func mergeCmd() *cobra.Command {
	var composePath string
	cmd := &cobra.Command{
		Use:   "merge [dir]",
		Short: "Synthesize the merged build artifacts",
		Long: `Reads the resolved service map (<dir>/compose-resolved.yaml unless
--compose is given) and the stage Dockerfile templates, then writes four
artifacts into the project directory:

  merged.Dockerfile  – single self-contained multi-stage build definition
  merged.env         – sourceable build arguments and run defaults
  build-merged.sh    – builds the image without a compose orchestrator
  run-merged.sh      – runs the image with sensible overridable defaults

Templates are looked up in <dir>/templates first, then in the user-level
override directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runMerge(projectDirArg(args), composePath)
		},
	}
	cmd.Flags().StringVar(&composePath, "compose", "", "resolved service map file (default <dir>/"+paths.ComposeFile+")")
	return cmd
}

func runMerge(dir, composePath string) error {
	if composePath == "" {
		composePath = filepath.Join(dir, paths.ComposeFile)
	}
	resolved, err := compose.Load(composePath)
	if err != nil {
		return err
	}

	stage1Tmpl, err := merge.ReadStageTemplate(dir, paths.Stage1Template)
	if err != nil {
		return err
	}
	stage2Tmpl, err := merge.ReadStageTemplate(dir, paths.Stage2Template)
	if err != nil {
		return err
	}

	err = merge.Synthesize(merge.Inputs{
		ProjectDir:     dir,
		Resolved:       resolved,
		Stage1Template: stage1Tmpl,
		Stage2Template: stage2Tmpl,
	})
	if err != nil {
		log.Error(err.Error())
		return err
	}

	for _, name := range []string{paths.MergedDockerfile, paths.MergedEnv, paths.BuildScript, paths.RunScript} {
		log.Ok(fmt.Sprintf("wrote %s", filepath.Join(dir, name)))
	}
	log.Info(fmt.Sprintf("build with: %s", filepath.Join(dir, paths.BuildScript)))
	return nil
}

// ── mirrors ───────────────────────────────────────────────────────────────────

func mirrorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mirrors",
		Short: "List the known APT mirror keys",
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, key := range config.MirrorKeys() {
				host, _ := config.MirrorHost(key)
				fmt.Printf("%-8s %s\n", key, host)
			}
			return nil
		},
	}
}
