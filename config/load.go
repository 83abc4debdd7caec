package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"git.fractalqb.de/fractalqb/modmk/mkfs"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Settings *fileSettings         `yaml:"settings"`
	Modules  map[string]fileModule `yaml:"modules"`
}

type fileSettings struct {
	Project  string       `yaml:"project"`
	Config   string       `yaml:"config"`
	Limit    *bool        `yaml:"limit"`
	Verbose  *bool        `yaml:"verbose"`
	Strict   *bool        `yaml:"strict"`
	LogScan  *bool        `yaml:"logscan"`
	Clean    *bool        `yaml:"clean"`
	Pull     *bool        `yaml:"pull"`
	Commands fileCommands `yaml:"commands"`
}

type fileCommands struct {
	Hardware    string `yaml:"hardware"`
	Software    string `yaml:"software"`
	Environment string `yaml:"environment"`
	Pull        string `yaml:"pull"`
}

type fileModule struct {
	HwPath string `yaml:"hwpath"`
	SwPath string `yaml:"swpath"`
	Hw     *bool  `yaml:"hw"`
	Sw     *bool  `yaml:"sw"`
}

func (m fileModule) descriptor(name string) ModuleDescriptor {
	d := ModuleDescriptor{
		Name:     name,
		HwPath:   m.HwPath,
		SwPath:   m.SwPath,
		Hardware: m.HwPath != "",
		Software: m.SwPath != "",
	}
	if m.Hw != nil {
		d.Hardware = *m.Hw
	}
	if m.Sw != nil {
		d.Software = *m.Sw
	}
	return d
}

// Loader reads the configuration layers from Fs. The zero value is not usable;
// see [NewLoader].
type Loader struct {
	Fs       afero.Fs
	UserPath string
	// Default is the content of a new user configuration file.
	Default []byte
	Log     *slog.Logger
}

// NewLoader returns a loader for the OS file system with the user file in its
// default location.
func NewLoader(log *slog.Logger) (*Loader, error) {
	up, err := UserPath()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigMissing, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		Fs:       afero.NewOsFs(),
		UserPath: up,
		Default:  Default(),
		Log:      log,
	}, nil
}

// Bootstrap creates the user file from the default content if it does not
// exist. Calling it again once the file exists does nothing.
func (ld *Loader) Bootstrap() (copied bool, err error) {
	copied, err = mkfs.Provide(ld.Fs, ld.UserPath, ld.Default, 0644)
	if err != nil {
		return false, fmt.Errorf("%w: create default %s: %w", ErrConfigMissing, ld.UserPath, err)
	}
	if copied {
		ld.log().Info("created default user config `file`", `file`, ld.UserPath)
	}
	return copied, nil
}

// LoadUser bootstraps and reads the user file.
func (ld *Loader) LoadUser() (Settings, map[string]ModuleDescriptor, error) {
	if _, err := ld.Bootstrap(); err != nil {
		return Settings{}, nil, err
	}
	data, err := afero.ReadFile(ld.Fs, ld.UserPath)
	if err != nil {
		return Settings{}, nil, fmt.Errorf("%w: %s: %w", ErrConfigMissing, ld.UserPath, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Settings{}, nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, ld.UserPath, err)
	}
	if fc.Settings == nil || fc.Settings.Project == "" {
		return Settings{}, nil, fmt.Errorf("%w: %s: no settings.project", ErrConfigParse, ld.UserPath)
	}
	mods, err := modules(ld.UserPath, fc.Modules)
	if err != nil {
		return Settings{}, nil, err
	}
	return fc.Settings.settings(), mods, nil
}

// LoadProject reads the project file at path. If path is not an existing
// regular file ok is false and there is no error.
func (ld *Loader) LoadProject(path string) (mods map[string]ModuleDescriptor, ok bool, err error) {
	if path == "" || !mkfs.IsFile(ld.Fs, path) {
		return nil, false, nil
	}
	data, err := afero.ReadFile(ld.Fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %s: %w", ErrConfigParse, path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrConfigParse, path, err)
	}
	if fc.Settings != nil {
		ld.log().Debug("ignoring settings in project `config`", `config`, path)
	}
	mods, err = modules(path, fc.Modules)
	return mods, err == nil, err
}

// Load reads both configuration layers and merges them.
func (ld *Loader) Load() (*Resolved, error) {
	set, user, err := ld.LoadUser()
	if err != nil {
		return nil, err
	}
	prj, ok, err := ld.LoadProject(set.Config)
	if err != nil {
		return nil, err
	}
	if !ok {
		ld.log().Warn("missing project `config`", `config`, set.Config)
	}
	return Merge(set, user, prj)
}

func (ld *Loader) log() *slog.Logger {
	if ld.Log == nil {
		return slog.Default()
	}
	return ld.Log
}

func (s *fileSettings) settings() Settings {
	res := DefaultSettings()
	res.Project = Expand(s.Project)
	res.Config = Expand(s.Config)
	setBool(&res.Limit, s.Limit)
	setBool(&res.Verbose, s.Verbose)
	setBool(&res.Strict, s.Strict)
	setBool(&res.LogScan, s.LogScan)
	setBool(&res.Clean, s.Clean)
	setBool(&res.Pull, s.Pull)
	setString(&res.Commands.Hardware, s.Commands.Hardware)
	setString(&res.Commands.Software, s.Commands.Software)
	setString(&res.Commands.Environment, s.Commands.Environment)
	setString(&res.Commands.Pull, s.Commands.Pull)
	return res
}

func setBool(dst *bool, b *bool) {
	if b != nil {
		*dst = *b
	}
}

func setString(dst *string, s string) {
	if s = strings.TrimSpace(s); s != "" {
		*dst = s
	}
}

func modules(file string, fms map[string]fileModule) (map[string]ModuleDescriptor, error) {
	res := make(map[string]ModuleDescriptor, len(fms))
	for name, fm := range fms {
		key := strings.ToLower(name)
		if _, dup := res[key]; dup {
			return nil, fmt.Errorf("%w: %s: module '%s' defined more than once",
				ErrConfigParse,
				file,
				key,
			)
		}
		res[key] = fm.descriptor(key)
	}
	return res, nil
}
