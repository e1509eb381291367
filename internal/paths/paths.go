// Package paths centralizes the file layout of a stagedock project and the
// user-level directories the CLI reads from.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Name used for directory and file naming.
const appName = "stagedock"

// Fixed file names inside a project directory.
const (
	// ConfigFile is the user-authored project configuration.
	ConfigFile = "stagedock.yaml"
	// ComposeFile is the resolved service map produced by the compose
	// resolution step.
	ComposeFile = "compose-resolved.yaml"

	// TemplatesDir holds the per-project stage Dockerfile templates.
	TemplatesDir = "templates"
	// Stage1Template and Stage2Template are the stage build-instruction
	// template file names.
	Stage1Template = "stage-1.Dockerfile"
	Stage2Template = "stage-2.Dockerfile"

	// InstallDir holds the per-stage installation payloads copied into the
	// image at build time.
	InstallDir = "installation"

	// Merged artifact names, fixed by the build/run script contract.
	MergedDockerfile = "merged.Dockerfile"
	MergedEnv        = "merged.env"
	BuildScript      = "build-merged.sh"
	RunScript        = "run-merged.sh"
)

// Default permission modes.
const (
	DirMode    os.FileMode = 0o755
	FileMode   os.FileMode = 0o644
	ScriptMode os.FileMode = 0o755
)

// UserTemplatesDir returns the user-level template override directory,
// consulted when a project does not carry its own stage templates.
//
//	Linux: ~/.config/stagedock/templates
func UserTemplatesDir() string {
	return filepath.Join(xdg.ConfigHome, appName, TemplatesDir)
}

// TemplateSearchPath returns the directories searched for a stage template,
// most specific first: the project's templates dir, then the user override
// dir.
func TemplateSearchPath(projectDir string) []string {
	return []string{
		filepath.Join(projectDir, TemplatesDir),
		UserTemplatesDir(),
	}
}

// StageDirs returns the per-stage installation directories of a project.
func StageDirs(projectDir string) []string {
	return []string{
		filepath.Join(projectDir, InstallDir, "stage-1"),
		filepath.Join(projectDir, InstallDir, "stage-2"),
	}
}
