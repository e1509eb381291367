package compose_test

import (
	"reflect"
	"testing"

	"github.com/stagedock/stagedock/internal/compose"
)

const resolvedMap = `
services:
  stage-1:
    image: demo:stage-1
    build:
      context: .
      dockerfile: templates/stage-1.Dockerfile
      args:
        BASE_IMAGE: ubuntu:24.04
        WITH_SSH: "true"
  stage-2:
    image: demo:stage-2
    build:
      context: .
      dockerfile: templates/stage-2.Dockerfile
      args: {}
    ports:
      - "2222:22"
      - "8080:80"
    volumes:
      - demo-data:/soft/data
    extra_hosts:
      - "host.docker.internal:host-gateway"
    networks:
      - demo-net
    environment:
      ROLE: worker
    deploy:
      resources:
        reservations:
          devices:
            - driver: nvidia
              count: all
              capabilities: [gpu]
`

func TestLoadBytes(t *testing.T) {
	m, err := compose.LoadBytes([]byte(resolvedMap), "test")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	stage1, ok := m.Service(compose.Stage1)
	if !ok {
		t.Fatal("missing stage-1 service")
	}
	if stage1.Build.Args["BASE_IMAGE"] != "ubuntu:24.04" {
		t.Errorf("stage-1 BASE_IMAGE = %q", stage1.Build.Args["BASE_IMAGE"])
	}
	if stage1.GPURequested() {
		t.Error("stage-1 should not request a GPU")
	}

	stage2, ok := m.Service(compose.Stage2)
	if !ok {
		t.Fatal("missing stage-2 service")
	}
	if stage2.Image != "demo:stage-2" {
		t.Errorf("stage-2 image = %q", stage2.Image)
	}
	if want := []string{"2222:22", "8080:80"}; !reflect.DeepEqual([]string(stage2.Ports), want) {
		t.Errorf("ports = %v, want %v", stage2.Ports, want)
	}
	// Mapping-form environment is flattened to KEY=VALUE entries.
	if want := []string{"ROLE=worker"}; !reflect.DeepEqual([]string(stage2.Environment), want) {
		t.Errorf("environment = %v, want %v", stage2.Environment, want)
	}
	if !stage2.GPURequested() {
		t.Error("stage-2 should request a GPU")
	}
	if len(stage2.Networks) != 1 || stage2.Networks[0] != "demo-net" {
		t.Errorf("networks = %v", stage2.Networks)
	}
}

func TestGPURequestedToleratesAbsence(t *testing.T) {
	cases := []string{
		"services:\n  stage-2:\n    image: x\n",
		"services:\n  stage-2:\n    image: x\n    deploy: {}\n",
		"services:\n  stage-2:\n    image: x\n    deploy:\n      resources:\n        reservations:\n          devices: []\n",
	}
	for _, doc := range cases {
		m, err := compose.LoadBytes([]byte(doc), "test")
		if err != nil {
			t.Fatalf("LoadBytes(%q): %v", doc, err)
		}
		svc, _ := m.Service(compose.Stage2)
		if svc.GPURequested() {
			t.Errorf("GPURequested() = true for %q", doc)
		}
	}
}

func TestStringListToleratesScalars(t *testing.T) {
	const doc = `
services:
  stage-2:
    image: x
    ports: not-a-list
`
	m, err := compose.LoadBytes([]byte(doc), "test")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	svc, _ := m.Service(compose.Stage2)
	if len(svc.Ports) != 0 {
		t.Errorf("ports = %v, want empty", svc.Ports)
	}
}

func TestBuildArgNames(t *testing.T) {
	svc := compose.Service{Build: compose.Build{Args: map[string]string{
		"B": "2", "A": "1", "C": "3",
	}}}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(svc.BuildArgNames(), want) {
		t.Errorf("BuildArgNames() = %v, want %v", svc.BuildArgNames(), want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := compose.Load("/nonexistent/compose-resolved.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
