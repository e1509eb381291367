package config

import "fmt"

// Stage bundles every configuration facet of one build stage.
type Stage struct {
	Image       Image
	SSH         SSH
	Proxy       Proxy
	Apt         Apt
	Device      Device
	Ports       []string
	Environment []string
	Storage     map[string]Storage
	Scripts     Scripts
}

// Project is the aggregate configuration of a two-stage build. Stage2 is
// built FROM Stage1's output image.
type Project struct {
	// Name is the project name, used as the image repository component of
	// derived tags.
	Name   string
	Stage1 Stage
	Stage2 Stage
}

// NewProject validates the cross-stage invariants and applies the derived
// defaults: missing output tags become "<name>:stage-N" and stage-2's base
// defaults to stage-1's output.
func NewProject(name string, stage1, stage2 Stage) (*Project, error) {
	if name == "" {
		return nil, errf("project_name", "", "is required")
	}
	if stage1.Image.Base == "" {
		return nil, errf("stage_1.image.base", "", "is required")
	}
	if stage1.Image.Output == "" {
		stage1.Image.Output = fmt.Sprintf("%s:stage-1", name)
	}
	if stage2.Image.Base == "" {
		stage2.Image.Base = stage1.Image.Output
	}
	if stage2.Image.Output == "" {
		stage2.Image.Output = fmt.Sprintf("%s:stage-2", name)
	}
	return &Project{Name: name, Stage1: stage1, Stage2: stage2}, nil
}
