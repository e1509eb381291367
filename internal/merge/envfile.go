package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stagedock/stagedock/internal/compose"
)

// argDoc pairs a build-argument name with its one-line description. The
// tables below fix both the emission order of known arguments and the
// comment written above each; they are data, not logic, so new arguments
// only need a table entry.
type argDoc struct {
	Name string
	Desc string
}

var stage1ArgOrder = []argDoc{
	{"BASE_IMAGE_1", "base image the stage-1 (system) layer builds FROM"},
	{"WITH_SSH", "install and enable the in-container SSH server"},
	{"SSH_USER_NAME", "comma-separated SSH account names"},
	{"SSH_USER_PASSWORD", "comma-separated SSH account passwords, aligned with SSH_USER_NAME"},
	{"SSH_USER_UID", "comma-separated SSH account UIDs, aligned with SSH_USER_NAME"},
	{"SSH_PUBKEY_FILE", "comma-separated public key sources, aligned with SSH_USER_NAME"},
	{"SSH_PRIVKEY_FILE", "comma-separated private key sources, aligned with SSH_USER_NAME"},
	{"SSH_CONTAINER_PORT", "port the SSH server listens on inside the container"},
	{"APT_SOURCE_FILE", "APT sources replacement: a mirror key or a sources file path"},
	{"APT_KEEP_SOURCE_FILE", "keep the replaced APT sources in the final image"},
	{"APT_USE_PROXY", "route APT traffic through the proxy during the build"},
	{"APT_KEEP_PROXY", "keep the APT proxy configuration after the build"},
	{"HTTP_PROXY_ADDRESS", "proxy endpoint available during the build"},
	{"ENABLE_GLOBAL_PROXY", "export the proxy into the image's global environment"},
	{"REMOVE_PROXY_AFTER_BUILD", "strip the global proxy settings in the final layer"},
	{"STAGE_HOST_DIR_1", "host directory holding the stage-1 installation payload"},
	{"STAGE_DIR_1", "in-image directory for the stage-1 installation payload"},
}

var stage2ArgOrder = []argDoc{
	{"HTTP_PROXY_ADDRESS", "proxy endpoint available during the build"},
	{"ENABLE_GLOBAL_PROXY", "export the proxy into the image's global environment"},
	{"REMOVE_PROXY_AFTER_BUILD", "strip the global proxy settings in the final layer"},
	{"STAGE_HOST_DIR_2", "host directory holding the stage-2 installation payload"},
	{"STAGE_DIR_2", "in-image directory for the stage-2 installation payload"},
	{"APP_STORAGE_DIR", "in-image directory for application files"},
	{"DATA_STORAGE_DIR", "in-image directory for user data"},
	{"WORKSPACE_STORAGE_DIR", "in-image directory for the workspace"},
}

// runDefaultDocs describes the derived run-script defaults, in emission
// order.
var runDefaultDocs = []argDoc{
	{"STAGE2_IMAGE_NAME", "image tag produced by the merged build"},
	{"RUN_CONTAINER_NAME", "default container name"},
	{"RUN_DETACH", "run detached (true/false)"},
	{"RUN_REMOVE", "remove the container when it exits (true/false)"},
	{"RUN_TTY", "allocate an interactive TTY when not detached (true/false)"},
	{"RUN_GPU", "GPU mode: auto, all, or none"},
	{"RUN_DEVICE_TYPE", "device type derived from the resolved stage-2 service"},
	{"RUN_PORTS", "space-separated port publications"},
	{"RUN_VOLUMES", "space-separated volume mounts"},
	{"RUN_EXTRA_HOSTS", "space-separated extra host entries"},
	{"RUN_NETWORK", "network to attach to, empty for the default"},
	{"RUN_ENV_ENABLE", "pass RUN_ENV_VARS to the container (true/false)"},
	{"RUN_ENV_VARS", "space-separated KEY=VALUE pairs passed when enabled"},
	{"RUN_EXTRA_ARGS", "extra arguments appended to the run command"},
}

// ShellQuote wraps s in single quotes, escaping embedded single quotes so
// the result is safe to source from a POSIX shell.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// normalizeStage1Args renames a literal BASE_IMAGE key to its stage-scoped
// BASE_IMAGE_1 name; everything else passes through.
func normalizeStage1Args(args map[string]string) map[string]string {
	out := make(map[string]string, len(args))
	for name, value := range args {
		if name == "BASE_IMAGE" {
			name = "BASE_IMAGE_1"
		}
		out[name] = value
	}
	return out
}

// normalizeStage2Args drops a literal BASE_IMAGE key: in the merged build
// stage-2 always starts from the stage1 build stage, never from a
// user-supplied base.
func normalizeStage2Args(args map[string]string) map[string]string {
	out := make(map[string]string, len(args))
	for name, value := range args {
		if name == "BASE_IMAGE" {
			continue
		}
		out[name] = value
	}
	return out
}

// orderedArgs returns the argument names present in args: names from the
// known table first, in table order, then the remaining names in lexical
// order.
func orderedArgs(known []argDoc, args map[string]string) []string {
	seen := make(map[string]bool, len(known))
	var out []string
	for _, doc := range known {
		if _, ok := args[doc.Name]; ok {
			out = append(out, doc.Name)
			seen[doc.Name] = true
		}
	}
	var rest []string
	for name := range args {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// argDescription returns the documented description for name, if any.
func argDescription(known []argDoc, name string) string {
	for _, doc := range known {
		if doc.Name == name {
			return doc.Desc
		}
	}
	return ""
}

// RenderEnv produces the merged.env content: stage-1 build arguments,
// stage-2 build arguments, then the derived run defaults, each as a
// single-quoted KEY='value' assignment.
func RenderEnv(stage1Args, stage2Args map[string]string, stage2 compose.Service) []byte {
	var b strings.Builder
	b.WriteString("# Generated by stagedock. Sourced by build-merged.sh and run-merged.sh;\n")
	b.WriteString("# regenerate with `stagedock merge` instead of editing by hand.\n")

	writeArgSection(&b, "stage-1 build arguments", stage1ArgOrder, normalizeStage1Args(stage1Args))
	writeArgSection(&b, "stage-2 build arguments", stage2ArgOrder, normalizeStage2Args(stage2Args))

	b.WriteString("\n# ---- run defaults ----\n")
	defaults := runDefaults(stage2)
	for _, doc := range runDefaultDocs {
		b.WriteString("# " + doc.Desc + "\n")
		fmt.Fprintf(&b, "%s=%s\n", doc.Name, ShellQuote(defaults[doc.Name]))
	}
	return []byte(b.String())
}

func writeArgSection(b *strings.Builder, title string, known []argDoc, args map[string]string) {
	b.WriteString("\n# ---- " + title + " ----\n")
	for _, name := range orderedArgs(known, args) {
		if desc := argDescription(known, name); desc != "" {
			b.WriteString("# " + desc + "\n")
		}
		fmt.Fprintf(b, "%s=%s\n", name, ShellQuote(args[name]))
	}
}

// runDefaults derives the run-script default values from the resolved
// stage-2 service. Missing runtime hints become empty values, never errors.
func runDefaults(stage2 compose.Service) map[string]string {
	deviceType := "cpu"
	if stage2.GPURequested() {
		deviceType = "gpu"
	}
	network := ""
	if len(stage2.Networks) > 0 {
		network = stage2.Networks[0]
	}
	return map[string]string{
		"STAGE2_IMAGE_NAME":  stage2.Image,
		"RUN_CONTAINER_NAME": defaultContainerName(stage2.Image),
		"RUN_DETACH":         "false",
		"RUN_REMOVE":         "true",
		"RUN_TTY":            "true",
		"RUN_GPU":            "auto",
		"RUN_DEVICE_TYPE":    deviceType,
		"RUN_PORTS":          strings.Join(stage2.Ports, " "),
		"RUN_VOLUMES":        strings.Join(stage2.Volumes, " "),
		"RUN_EXTRA_HOSTS":    strings.Join(stage2.ExtraHosts, " "),
		"RUN_NETWORK":        network,
		"RUN_ENV_ENABLE":     "false",
		"RUN_ENV_VARS":       strings.Join(stage2.Environment, " "),
		"RUN_EXTRA_ARGS":     "",
	}
}

// defaultContainerName derives a container name from an image reference by
// flattening tag and path separators, e.g. "proj:stage-2" -> "proj-stage-2".
func defaultContainerName(image string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '.', '@':
			return '-'
		}
		return r
	}, image)
	return strings.Trim(name, "-")
}

// BuildArgNames returns the build-argument names the build script passes
// through, stage-1's first then stage-2's, after the BASE_IMAGE
// normalization, with duplicates dropped.
func BuildArgNames(stage1Args, stage2Args map[string]string) []string {
	s1 := normalizeStage1Args(stage1Args)
	s2 := normalizeStage2Args(stage2Args)

	seen := make(map[string]bool, len(s1)+len(s2))
	var out []string
	for _, name := range orderedArgs(stage1ArgOrder, s1) {
		if !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	for _, name := range orderedArgs(stage2ArgOrder, s2) {
		if !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	return out
}
