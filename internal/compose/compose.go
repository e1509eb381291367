// Package compose models the resolved service map produced by the compose
// resolution step: a fully expanded description of each stage's build
// arguments and runtime shape, with no template placeholders left.
package compose

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Stage service keys in the resolved map.
const (
	Stage1 = "stage-1"
	Stage2 = "stage-2"
)

// Map is the top level of a resolved service map.
type Map struct {
	Services map[string]Service `yaml:"services"`
}

// Service is one resolved stage service.
type Service struct {
	Image       string     `yaml:"image"`
	Build       Build      `yaml:"build"`
	Ports       StringList `yaml:"ports"`
	Volumes     StringList `yaml:"volumes"`
	ExtraHosts  StringList `yaml:"extra_hosts"`
	Networks    StringList `yaml:"networks"`
	Environment StringList `yaml:"environment"`
	Deploy      *Deploy    `yaml:"deploy"`
}

// Build holds the resolved build section of a service.
type Build struct {
	Context    string            `yaml:"context"`
	Dockerfile string            `yaml:"dockerfile"`
	Args       map[string]string `yaml:"args"`
}

// Deploy carries the deploy subtree; only device reservations are read, and
// only to infer GPU intent.
type Deploy struct {
	Resources struct {
		Reservations struct {
			Devices []DeviceRequest `yaml:"devices"`
		} `yaml:"reservations"`
	} `yaml:"resources"`
}

// DeviceRequest is one device reservation entry.
type DeviceRequest struct {
	Driver       string     `yaml:"driver"`
	Count        string     `yaml:"count"`
	Capabilities StringList `yaml:"capabilities"`
}

// StringList decodes a YAML sequence of scalars. A mapping node is accepted
// and flattened to "key=value" entries in lexical key order; any other shape
// (missing, scalar, null) decodes to an empty list rather than failing,
// matching the tolerant read contract for runtime hints.
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var out []string
		for _, item := range value.Content {
			out = append(out, item.Value)
		}
		*l = out
	case yaml.MappingNode:
		pairs := make(map[string]string, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			pairs[value.Content[i].Value] = value.Content[i+1].Value
		}
		keys := make([]string, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, k+"="+pairs[k])
		}
		*l = out
	default:
		*l = nil
	}
	return nil
}

// Load reads and parses a resolved service map file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read resolved compose map %q: %w", path, err)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses a resolved service map from raw YAML bytes. The source
// parameter is used only for error messages.
func LoadBytes(data []byte, source string) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("resolved compose map %q: YAML parse error: %w", source, err)
	}
	return &m, nil
}

// Service returns the named service, reporting whether it exists.
func (m *Map) Service(name string) (Service, bool) {
	svc, ok := m.Services[name]
	return svc, ok
}

// GPURequested reports whether the service reserves any device, which is the
// resolved map's way of declaring GPU intent. Absent deploy or reservation
// structures simply mean no GPU.
func (s Service) GPURequested() bool {
	return s.Deploy != nil && len(s.Deploy.Resources.Reservations.Devices) > 0
}

// BuildArgNames returns the service's build argument names in lexical order.
func (s Service) BuildArgNames() []string {
	names := make([]string, 0, len(s.Build.Args))
	for name := range s.Build.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
