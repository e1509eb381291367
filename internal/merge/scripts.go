package merge

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/stagedock/stagedock/internal/paths"
)

//go:embed assets/build-merged.sh.tmpl
var buildScriptTmpl string

//go:embed assets/run-merged.sh.tmpl
var runScriptTmpl string

// scriptData is the substitution surface of the script templates. The
// scripts read everything else from the env file at run time.
type scriptData struct {
	EnvFile       string
	Dockerfile    string
	BuildArgNames []string
}

// RenderBuildScript renders build-merged.sh, passing one --build-arg flag
// per name (the values come from the sourced env file).
func RenderBuildScript(argNames []string) ([]byte, error) {
	return renderScript(paths.BuildScript, buildScriptTmpl, scriptData{
		EnvFile:       paths.MergedEnv,
		Dockerfile:    paths.MergedDockerfile,
		BuildArgNames: argNames,
	})
}

// RenderRunScript renders run-merged.sh.
func RenderRunScript() ([]byte, error) {
	return renderScript(paths.RunScript, runScriptTmpl, scriptData{
		EnvFile: paths.MergedEnv,
	})
}

func renderScript(name, text string, data scriptData) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, synthErr(name, "parse script template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, synthErr(name, "render script template", err)
	}
	return buf.Bytes(), nil
}
