// Package project scaffolds new stagedock project directories: a commented
// default configuration, the two stage Dockerfile templates, and the
// per-stage installation directories.
package project

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/stagedock/stagedock/internal/paths"
)

//go:embed assets/stagedock.yaml.tmpl
var configTmpl string

//go:embed assets/stage-1.Dockerfile
var stage1Template string

//go:embed assets/stage-2.Dockerfile
var stage2Template string

// DefaultName derives a project name from the directory base name:
// lowercased, with runes outside [a-z0-9_.-] flattened to '-'. When nothing
// usable remains it falls back to a random "proj-<8 hex>" name, so the
// derived image tags are always valid.
func DefaultName(dir string) string {
	base := strings.ToLower(filepath.Base(filepath.Clean(dir)))
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			return r
		default:
			return '-'
		}
	}, base)
	name = strings.Trim(name, "-.")
	if name == "" || name == "/" {
		name = "proj-" + uuid.NewString()[:8]
	}
	return name
}

// Scaffold creates a project skeleton in dir under the given project name.
// It refuses to overwrite an existing configuration file; everything else
// is created only when missing.
func Scaffold(dir, name string) error {
	cfgPath := filepath.Join(dir, paths.ConfigFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("project already initialised: %s exists", cfgPath)
	}

	dirs := append(paths.StageDirs(dir), filepath.Join(dir, paths.TemplatesDir))
	for _, d := range dirs {
		if err := os.MkdirAll(d, paths.DirMode); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	cfg, err := renderConfig(name)
	if err != nil {
		return err
	}
	files := []struct {
		path string
		data []byte
	}{
		{cfgPath, cfg},
		{filepath.Join(dir, paths.TemplatesDir, paths.Stage1Template), []byte(stage1Template)},
		{filepath.Join(dir, paths.TemplatesDir, paths.Stage2Template), []byte(stage2Template)},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, paths.FileMode); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	return nil
}

func renderConfig(name string) ([]byte, error) {
	tmpl, err := template.New(paths.ConfigFile).Parse(configTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return nil, fmt.Errorf("render config template: %w", err)
	}
	return buf.Bytes(), nil
}
