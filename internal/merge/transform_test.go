package merge_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stagedock/stagedock/internal/merge"
)

const stage1Template = `# system layer
ARG BASE_IMAGE
FROM ${BASE_IMAGE} AS whatever
ARG WITH_SSH=false
RUN echo stage-1
`

const stage2Template = `# app layer
ARG BASE_IMAGE
FROM ${BASE_IMAGE} AS whatever
RUN echo stage-2
`

func countLines(t *testing.T, text, pattern string) int {
	t.Helper()
	return len(regexp.MustCompile(pattern).FindAllString(text, -1))
}

func TestMergedDockerfileStructure(t *testing.T) {
	part1, err := merge.TransformStage1(stage1Template)
	if err != nil {
		t.Fatalf("TransformStage1: %v", err)
	}
	part2, err := merge.TransformStage2(stage2Template)
	if err != nil {
		t.Fatalf("TransformStage2: %v", err)
	}
	merged := merge.MergeDockerfiles(part1, part2)

	if n := countLines(t, merged, `(?m)^ARG BASE_IMAGE_1$`); n != 1 {
		t.Errorf("ARG BASE_IMAGE_1 lines = %d, want 1\n%s", n, merged)
	}
	if n := countLines(t, merged, `(?m)^ARG BASE_IMAGE$`); n != 0 {
		t.Errorf("ARG BASE_IMAGE lines = %d, want 0\n%s", n, merged)
	}
	if n := countLines(t, merged, `(?m)^FROM \$\{BASE_IMAGE_1\} AS stage1$`); n != 1 {
		t.Errorf("FROM ${BASE_IMAGE_1} AS stage1 lines = %d, want 1\n%s", n, merged)
	}
	if n := countLines(t, merged, `(?m)^FROM stage1 AS final$`); n != 1 {
		t.Errorf("FROM stage1 AS final lines = %d, want 1\n%s", n, merged)
	}
	// Stage bodies survive, in order.
	if !strings.Contains(merged, "RUN echo stage-1") || !strings.Contains(merged, "RUN echo stage-2") {
		t.Errorf("stage bodies missing:\n%s", merged)
	}
	if strings.Index(merged, "stage-1") > strings.Index(merged, "RUN echo stage-2") {
		t.Error("stage-1 body should precede stage-2 body")
	}
}

func TestTransformToleratesTrailingComment(t *testing.T) {
	const tmpl = "ARG BASE_IMAGE\nFROM ${BASE_IMAGE} AS base # keep in sync\n"
	out, err := merge.TransformStage1(tmpl)
	if err != nil {
		t.Fatalf("TransformStage1: %v", err)
	}
	if !strings.Contains(out, "FROM ${BASE_IMAGE_1} AS stage1\n") {
		t.Errorf("trailing comment not swallowed:\n%s", out)
	}
	if strings.Contains(out, "keep in sync") {
		t.Errorf("trailing comment survived the rewrite:\n%s", out)
	}
}

func TestTransformRejectsMalformedTemplates(t *testing.T) {
	cases := []string{
		"RUN echo no-from\n",                                     // nothing to anchor on
		"ARG BASE_IMAGE\nRUN echo x\n",                           // no FROM line
		"FROM ${BASE_IMAGE}\nRUN echo x\n",                       // no ARG line
		"ARG BASE_IMAGE\nFROM ${BASE_IMAGE}\nARG BASE_IMAGE\n",   // two ARG lines
		"ARG BASE_IMAGE\nFROM ${BASE_IMAGE}\nFROM ${BASE_IMAGE}", // two FROM lines
	}
	for _, tmpl := range cases {
		if _, err := merge.TransformStage1(tmpl); err == nil {
			t.Errorf("TransformStage1(%q): expected error", tmpl)
		}
		if _, err := merge.TransformStage2(tmpl); err == nil {
			t.Errorf("TransformStage2(%q): expected error", tmpl)
		}
	}
}

func TestTransformStage2DropsArgLine(t *testing.T) {
	out, err := merge.TransformStage2(stage2Template)
	if err != nil {
		t.Fatalf("TransformStage2: %v", err)
	}
	if strings.Contains(out, "ARG BASE_IMAGE") {
		t.Errorf("stage-2 ARG BASE_IMAGE line survived:\n%s", out)
	}
	if !strings.Contains(out, "FROM stage1 AS final") {
		t.Errorf("stage-2 FROM line not rewritten:\n%s", out)
	}
}
