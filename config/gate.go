package config

// HardwareEnabled reports whether the hardware build step runs for d. A
// descriptor without hardware path never builds hardware.
func HardwareEnabled(d ModuleDescriptor) bool { return d.Hardware && d.HwPath != "" }

// SoftwareEnabled reports whether the software build step runs for d. A
// descriptor without software path never builds software.
func SoftwareEnabled(d ModuleDescriptor) bool { return d.Software && d.SwPath != "" }
