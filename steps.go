package modmk

import (
	"fmt"

	"git.fractalqb.de/fractalqb/modmk/config"
)

// StepKind identifies one of the build steps of a module.
type StepKind int

const (
	Software StepKind = iota
	Hardware
)

// BuildOrder is the order in which the steps of a module are built.
var BuildOrder = []StepKind{Software, Hardware}

func (k StepKind) String() string {
	switch k {
	case Software:
		return "software"
	case Hardware:
		return "hardware"
	}
	return fmt.Sprintf("step-%d", int(k))
}

// Tag is the short name used to mark the output of the step's tools.
func (k StepKind) Tag() string {
	switch k {
	case Software:
		return "sw"
	case Hardware:
		return "hw"
	}
	return "??"
}

// Enabled is the build step gate for k.
func (k StepKind) Enabled(d config.ModuleDescriptor) bool {
	switch k {
	case Software:
		return config.SoftwareEnabled(d)
	case Hardware:
		return config.HardwareEnabled(d)
	}
	return false
}

// Path returns the directory of step k as configured in d.
func (k StepKind) Path(d config.ModuleDescriptor) string {
	switch k {
	case Software:
		return d.SwPath
	case Hardware:
		return d.HwPath
	}
	return ""
}
