// Package config defines the typed configuration model for a two-stage
// container environment. Every value type is validated by its constructor;
// an instance that exists is an instance that passed validation.
package config

import "strings"

// Image names the input and output images of one build stage.
type Image struct {
	// Base is the image the stage builds FROM. Required for stage-1;
	// stage-2 defaults to stage-1's output.
	Base string
	// Output is the tag given to the stage's result. Defaults to
	// "<project>:stage-N" when empty.
	Output string
}

// NewImage validates and returns an Image.
func NewImage(base, output string) (Image, error) {
	for _, ref := range []string{base, output} {
		if strings.ContainsAny(ref, " \t") {
			return Image{}, errf("image", ref, "image reference must not contain whitespace")
		}
	}
	return Image{Base: base, Output: output}, nil
}

// DeviceType selects the compute device a stage targets.
type DeviceType string

const (
	DeviceCPU DeviceType = "cpu"
	DeviceGPU DeviceType = "gpu"
)

// Device declares the compute device for a stage. The declaration only
// records intent; runtime flags are derived downstream by the synthesizer.
type Device struct {
	Type DeviceType
}

// NewDevice validates and returns a Device. An empty type defaults to cpu.
func NewDevice(typ string) (Device, error) {
	switch DeviceType(typ) {
	case "":
		return Device{Type: DeviceCPU}, nil
	case DeviceCPU, DeviceGPU:
		return Device{Type: DeviceType(typ)}, nil
	default:
		return Device{}, errf("device.type", typ, "must be one of cpu, gpu")
	}
}
