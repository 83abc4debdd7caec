package config

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrConfigMissing = errors.New("config missing")
	ErrConfigParse   = errors.New("config parse error")
	ErrNoModules     = errors.New("no modules defined")
	ErrUnknownModule = errors.New("unknown module")
)

//go:embed default.yml
var defaultConfig []byte

// Default returns a copy of the bundled default user configuration.
func Default() []byte {
	res := make([]byte, len(defaultConfig))
	copy(res, defaultConfig)
	return res
}

const (
	DefaultHardwareCmd = "vivado -mode tcl -source makeHW_All.tcl"
	DefaultSoftwareCmd = "bash buildAll"
	DefaultEnvCmd      = "bash settings64_Vivado_Linux.sh"
	DefaultPullCmd     = "git pull"
)

type Commands struct {
	Hardware    string
	Software    string
	Environment string
	Pull        string
}

func DefaultCommands() Commands {
	return Commands{
		Hardware:    DefaultHardwareCmd,
		Software:    DefaultSoftwareCmd,
		Environment: DefaultEnvCmd,
		Pull:        DefaultPullCmd,
	}
}

// Settings are the module independent settings. They are only read from the
// user configuration.
type Settings struct {
	// Project is the root directory of the project, the base directory of all
	// build steps.
	Project string
	// Config is the path of the project configuration file.
	Config string

	Limit   bool
	Verbose bool
	// Strict stops a build at the first failing step.
	Strict  bool
	LogScan bool
	Clean   bool
	Pull    bool

	Commands Commands
}

func DefaultSettings() Settings {
	return Settings{
		Clean:    true,
		Pull:     true,
		Commands: DefaultCommands(),
	}
}

// Path resolves p relative to the project root unless p is absolute.
func (s *Settings) Path(p string) string {
	p = Expand(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.Project, p)
}

// ModuleDescriptor describes how to build one module.
type ModuleDescriptor struct {
	Name     string
	HwPath   string
	SwPath   string
	Hardware bool
	Software bool
}

func (d ModuleDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	if d.HwPath != "" {
		fmt.Fprintf(&sb, " hw=%s(%t)", d.HwPath, d.Hardware)
	}
	if d.SwPath != "" {
		fmt.Fprintf(&sb, " sw=%s(%t)", d.SwPath, d.Software)
	}
	return sb.String()
}

// Resolved is the merged configuration. It is not modified after [Merge].
type Resolved struct {
	Settings Settings
	Modules  map[string]ModuleDescriptor
}
