package config_test

import (
	"strings"
	"testing"

	"github.com/stagedock/stagedock/internal/config"
)

const validConfig = `
project_name: demo

stage_1:
  image:
    base: ubuntu:24.04
  ssh:
    enable: true
    host_port: 2222
    users:
      me:
        password: '123456'
        uid: 1100
  apt:
    repo_source: tuna
  device:
    type: cpu
  ports:
    - "8080:80"
  environment:
    - "LANG=C.UTF-8"

stage_2:
  device:
    type: gpu
  storage:
    app:
      type: auto-volume
    data:
      type: host
      host_path: /srv/data
  custom:
    on_first_run: ["setup.sh"]
    on_entry: ["serve.sh --port 8080"]
`

func TestLoadBytesValid(t *testing.T) {
	cfg, err := config.LoadBytes([]byte(validConfig), "test")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want demo", cfg.Name)
	}
	if cfg.Stage1.Image.Base != "ubuntu:24.04" {
		t.Errorf("stage-1 base = %q", cfg.Stage1.Image.Base)
	}
	// Derived defaults.
	if cfg.Stage1.Image.Output != "demo:stage-1" {
		t.Errorf("stage-1 output = %q, want demo:stage-1", cfg.Stage1.Image.Output)
	}
	if cfg.Stage2.Image.Base != "demo:stage-1" {
		t.Errorf("stage-2 base = %q, want demo:stage-1 (stage-1's output)", cfg.Stage2.Image.Base)
	}
	if cfg.Stage2.Image.Output != "demo:stage-2" {
		t.Errorf("stage-2 output = %q, want demo:stage-2", cfg.Stage2.Image.Output)
	}
	if !cfg.Stage1.SSH.Enable || cfg.Stage1.SSH.Port != 22 || cfg.Stage1.SSH.HostPort != 2222 {
		t.Errorf("unexpected SSH config: %+v", cfg.Stage1.SSH)
	}
	if _, ok := cfg.Stage1.SSH.Users["me"]; !ok {
		t.Error("expected SSH user me")
	}
	if !cfg.Stage1.Apt.KeepRepoAfterBuild {
		t.Error("apt.keep_repo_after_build should default to true")
	}
	if cfg.Stage2.Device.Type != config.DeviceGPU {
		t.Errorf("stage-2 device = %q, want gpu", cfg.Stage2.Device.Type)
	}
	if got := cfg.Stage2.Storage["data"].HostPath; got != "/srv/data" {
		t.Errorf("storage data host_path = %q", got)
	}
	if got := cfg.Stage2.Storage["app"].DstPath; got != "/soft/app" {
		t.Errorf("storage app dst_path = %q, want /soft/app", got)
	}
	if got := cfg.Stage2.Scripts.EntryScript(); got != "serve.sh --port 8080" {
		t.Errorf("EntryScript() = %q", got)
	}
}

func TestLoadBytesAggregatesErrors(t *testing.T) {
	const invalid = `
project_name: demo
stage_1:
  image:
    base: ubuntu:24.04
  ssh:
    users:
      ghost: {}
  ports:
    - "8000-8002:9000-9005"
stage_2:
  storage:
    data:
      type: host
  custom:
    on_entry: ["a.sh", "b.sh"]
`
	_, err := config.LoadBytes([]byte(invalid), "test")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	for _, want := range []string{
		"ghost",         // user without any credential
		"ports",         // mismatched range lengths
		"host_path",     // host storage without path
		"on_entry",      // two entry scripts
		"is invalid:\n", // aggregated form
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestLoadBytesRejectsUnknownFields(t *testing.T) {
	const unknown = `
project_name: demo
stage_1:
  image:
    base: ubuntu:24.04
    basse: typo
stage_2: {}
`
	if _, err := config.LoadBytes([]byte(unknown), "test"); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestLoadBytesRequiresStage1Base(t *testing.T) {
	const noBase = `
project_name: demo
stage_1: {}
stage_2: {}
`
	_, err := config.LoadBytes([]byte(noBase), "test")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "stage_1.image.base") {
		t.Errorf("error %q does not name stage_1.image.base", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load("/nonexistent/stagedock.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
