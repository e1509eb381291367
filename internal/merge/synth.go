package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stagedock/stagedock/internal/compose"
	"github.com/stagedock/stagedock/internal/paths"
)

// Inputs bundles everything one synthesis run consumes: the resolved
// service map, the two stage template texts, and the directory the four
// artifacts are written to.
type Inputs struct {
	ProjectDir     string
	Resolved       *compose.Map
	Stage1Template string
	Stage2Template string
}

// Synthesize derives the four merged-build artifacts and writes them into
// the project directory, overwriting existing copies. Any error is fatal
// for the whole run; files already written by a failed run must be treated
// as stale.
func Synthesize(in Inputs) error {
	stage1, ok := in.Resolved.Service(compose.Stage1)
	if !ok {
		return synthErr("resolved service map", "missing the stage-1 service", nil)
	}
	stage2, ok := in.Resolved.Service(compose.Stage2)
	if !ok {
		return synthErr("resolved service map", "missing the stage-2 service", nil)
	}
	if strings.TrimSpace(stage2.Image) == "" {
		return synthErr("resolved service map", "stage-2 service has no image name", nil)
	}

	part1, err := TransformStage1(in.Stage1Template)
	if err != nil {
		return err
	}
	part2, err := TransformStage2(in.Stage2Template)
	if err != nil {
		return err
	}
	dockerfile := MergeDockerfiles(part1, part2)

	env := RenderEnv(stage1.Build.Args, stage2.Build.Args, stage2)

	buildScript, err := RenderBuildScript(BuildArgNames(stage1.Build.Args, stage2.Build.Args))
	if err != nil {
		return err
	}
	runScript, err := RenderRunScript()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(in.ProjectDir, paths.DirMode); err != nil {
		return synthErr("project directory", "create", err)
	}

	artifacts := []struct {
		name string
		data []byte
		mode os.FileMode
	}{
		{paths.MergedDockerfile, []byte(dockerfile), paths.FileMode},
		{paths.MergedEnv, env, paths.FileMode},
		{paths.BuildScript, buildScript, paths.ScriptMode},
		{paths.RunScript, runScript, paths.ScriptMode},
	}
	for _, a := range artifacts {
		dst := filepath.Join(in.ProjectDir, a.name)
		if err := os.WriteFile(dst, a.data, a.mode); err != nil {
			return synthErr(a.name, "write", err)
		}
		// WriteFile leaves the old mode on an overwritten file.
		if err := os.Chmod(dst, a.mode); err != nil {
			return synthErr(a.name, "chmod", err)
		}
	}
	return nil
}

// ReadStageTemplate locates and reads a stage template, trying the project's
// templates directory first and the user-level override directory second.
func ReadStageTemplate(projectDir, fileName string) (string, error) {
	searched := paths.TemplateSearchPath(projectDir)
	for _, dir := range searched {
		data, err := os.ReadFile(filepath.Join(dir, fileName))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", synthErr(fileName, "read template", err)
		}
	}
	return "", synthErr(fileName,
		fmt.Sprintf("template not found (searched %s)", strings.Join(searched, ", ")), nil)
}
