// Package merge synthesizes the merged-build artifacts: a self-contained
// multi-stage Dockerfile, a sourceable environment file, and the build and
// run scripts that let a user build and start the image without a compose
// orchestrator.
package merge

import (
	"fmt"
	"regexp"
	"strings"
)

// Build stage names in the merged Dockerfile. Stage-2 always builds FROM
// the stage1 build stage, never from a user-supplied image.
const (
	stage1Name = "stage1"
	finalName  = "final"
)

// Line-anchored rewrite rules. Case-sensitive, one line each, non-greedy on
// the rest of the line so trailing comments are swallowed into the rewrite.
var (
	argBaseImageLine  = regexp.MustCompile(`(?m)^ARG[ \t]+BASE_IMAGE\b`)
	argBaseImageWhole = regexp.MustCompile(`(?m)^ARG[ \t]+BASE_IMAGE\b[^\n]*\n?`)
	fromBaseImageLine = regexp.MustCompile(`(?m)^FROM[ \t]+\$\{BASE_IMAGE\}[^\n]*?$`)
)

// TransformStage1 rewrites the stage-1 template for inclusion in the merged
// Dockerfile: the BASE_IMAGE build argument becomes the stage-scoped
// BASE_IMAGE_1, and the FROM line declares the named stage1 build stage.
func TransformStage1(text string) (string, error) {
	if err := checkTemplate("stage-1 template", text); err != nil {
		return "", err
	}
	out := argBaseImageLine.ReplaceAllLiteralString(text, "ARG BASE_IMAGE_1")
	out = fromBaseImageLine.ReplaceAllLiteralString(out, "FROM ${BASE_IMAGE_1} AS "+stage1Name)
	return out, nil
}

// TransformStage2 rewrites the stage-2 template: its BASE_IMAGE declaration
// line is dropped entirely (the merged build never takes a user-supplied
// stage-2 base) and the FROM line chains onto the stage1 build stage.
func TransformStage2(text string) (string, error) {
	if err := checkTemplate("stage-2 template", text); err != nil {
		return "", err
	}
	out := argBaseImageWhole.ReplaceAllString(text, "")
	out = fromBaseImageLine.ReplaceAllLiteralString(out, "FROM "+stage1Name+" AS "+finalName)
	return out, nil
}

// checkTemplate verifies the template carries exactly one BASE_IMAGE
// declaration and exactly one FROM ${BASE_IMAGE} line, the two lines the
// rewrites anchor on.
func checkTemplate(subject, text string) error {
	if n := len(argBaseImageLine.FindAllStringIndex(text, -1)); n != 1 {
		return synthErr(subject, fmt.Sprintf("expected exactly one ARG BASE_IMAGE line, found %d", n), nil)
	}
	if n := len(fromBaseImageLine.FindAllStringIndex(text, -1)); n != 1 {
		return synthErr(subject, fmt.Sprintf("expected exactly one FROM ${BASE_IMAGE} line, found %d", n), nil)
	}
	return nil
}

// MergeDockerfiles joins the two transformed stage texts into one
// multi-stage Dockerfile, separated by a single blank line and ending with a
// newline.
func MergeDockerfiles(stage1, stage2 string) string {
	return strings.TrimRight(stage1, "\n") + "\n\n" + strings.TrimRight(stage2, "\n") + "\n"
}
