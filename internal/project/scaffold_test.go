package project_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stagedock/stagedock/internal/config"
	"github.com/stagedock/stagedock/internal/merge"
	"github.com/stagedock/stagedock/internal/paths"
	"github.com/stagedock/stagedock/internal/project"
)

func TestDefaultName(t *testing.T) {
	tests := []struct{ dir, want string }{
		{"/home/me/my-project", "my-project"},
		{"/home/me/My Project", "my-project"},
		{"/home/me/demo.app", "demo.app"},
	}
	for _, tt := range tests {
		if got := project.DefaultName(tt.dir); got != tt.want {
			t.Errorf("DefaultName(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}

	// Unusable names fall back to a generated one.
	got := project.DefaultName("/тест")
	if !strings.HasPrefix(got, "proj-") || len(got) != len("proj-")+8 {
		t.Errorf("DefaultName fallback = %q, want proj-<8 hex>", got)
	}
}

func TestScaffold(t *testing.T) {
	dir := t.TempDir()
	if err := project.Scaffold(dir, "demo"); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	for _, p := range []string{
		paths.ConfigFile,
		filepath.Join(paths.TemplatesDir, paths.Stage1Template),
		filepath.Join(paths.TemplatesDir, paths.Stage2Template),
		filepath.Join(paths.InstallDir, "stage-1"),
		filepath.Join(paths.InstallDir, "stage-2"),
	} {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Errorf("scaffolded path %s: %v", p, err)
		}
	}

	// A second init must refuse to clobber the config.
	if err := project.Scaffold(dir, "demo"); err == nil {
		t.Error("expected error when re-initialising an existing project")
	}
}

// The scaffolded configuration must itself pass validation.
func TestScaffoldedConfigIsValid(t *testing.T) {
	dir := t.TempDir()
	if err := project.Scaffold(dir, "demo"); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dir, paths.ConfigFile))
	if err != nil {
		t.Fatalf("scaffolded config does not validate: %v", err)
	}
	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want demo", cfg.Name)
	}
	if cfg.Stage2.Image.Base != "demo:stage-1" {
		t.Errorf("stage-2 base = %q, want demo:stage-1", cfg.Stage2.Image.Base)
	}
}

// The scaffolded stage templates must be transformable by the synthesizer.
func TestScaffoldedTemplatesTransform(t *testing.T) {
	dir := t.TempDir()
	if err := project.Scaffold(dir, "demo"); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	stage1, err := merge.ReadStageTemplate(dir, paths.Stage1Template)
	if err != nil {
		t.Fatalf("ReadStageTemplate: %v", err)
	}
	if _, err := merge.TransformStage1(stage1); err != nil {
		t.Errorf("scaffolded stage-1 template does not transform: %v", err)
	}

	stage2, err := merge.ReadStageTemplate(dir, paths.Stage2Template)
	if err != nil {
		t.Fatalf("ReadStageTemplate: %v", err)
	}
	if _, err := merge.TransformStage2(stage2); err != nil {
		t.Errorf("scaffolded stage-2 template does not transform: %v", err)
	}
}
