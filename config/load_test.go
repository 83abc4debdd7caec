package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testUserPath = "/home/hopper/.config/builder.yml"

func testLoader(t *testing.T, user, project string) *Loader {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if user != "" {
		require.NoError(t, afero.WriteFile(fsys, testUserPath, []byte(user), 0644))
	}
	if project != "" {
		require.NoError(t, afero.WriteFile(fsys, "/prj/builder.yml", []byte(project), 0644))
	}
	return &Loader{
		Fs:       fsys,
		UserPath: testUserPath,
		Default:  Default(),
	}
}

func TestLoader_Bootstrap(t *testing.T) {
	ld := testLoader(t, "", "")

	copied, err := ld.Bootstrap()
	require.NoError(t, err)
	require.True(t, copied)

	copied, err = ld.Bootstrap()
	require.NoError(t, err)
	require.False(t, copied, "second bootstrap copied again")

	data, err := afero.ReadFile(ld.Fs, testUserPath)
	require.NoError(t, err)
	require.Equal(t, Default(), data)
}

func TestLoader_LoadUser_bootstrapped(t *testing.T) {
	ld := testLoader(t, "", "")
	set, mods, err := ld.LoadUser()
	require.NoError(t, err)
	require.Empty(t, mods)
	require.False(t, set.Limit)
	require.True(t, set.Clean)
	require.Equal(t, DefaultHardwareCmd, set.Commands.Hardware)
	require.Equal(t, DefaultEnvCmd, set.Commands.Environment)

	_, err = ld.Load()
	require.ErrorIs(t, err, ErrNoModules)
}

func TestLoader_LoadUser_parseError(t *testing.T) {
	ld := testLoader(t, "settings: [project", "")
	_, _, err := ld.LoadUser()
	require.ErrorIs(t, err, ErrConfigParse)

	ld = testLoader(t, "modules:\n  top:\n    hwpath: hw\n", "")
	_, _, err = ld.LoadUser()
	require.ErrorIs(t, err, ErrConfigParse, "missing settings.project accepted")
}

func TestLoader_LoadUser_missing(t *testing.T) {
	ld := testLoader(t, "", "")
	ld.Fs = afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, _, err := ld.LoadUser()
	require.ErrorIs(t, err, ErrConfigMissing)
}

func TestLoader_LoadUser_caseCollision(t *testing.T) {
	ld := testLoader(t, `
settings:
  project: /prj
modules:
  Top: {hwpath: a}
  TOP: {hwpath: b}
`, "")
	_, _, err := ld.LoadUser()
	require.ErrorIs(t, err, ErrConfigParse)
}

func TestLoader_LoadProject(t *testing.T) {
	ld := testLoader(t, "", "modules:\n  Top:\n    swpath: sw/top\n")

	mods, ok, err := ld.LoadProject("/prj/builder.yml")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[string]ModuleDescriptor{
		"top": {Name: "top", SwPath: "sw/top", Software: true},
	}, mods)

	mods, ok, err = ld.LoadProject("/prj/missing.yml")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, mods)

	require.NoError(t, afero.WriteFile(ld.Fs, "/prj/bad.yml", []byte("modules: [x"), 0644))
	_, _, err = ld.LoadProject("/prj/bad.yml")
	require.ErrorIs(t, err, ErrConfigParse)
}

func TestLoader_Load(t *testing.T) {
	ld := testLoader(t, `
settings:
  project: /prj
  config: /prj/builder.yml
  limit: true
  commands:
    software: make all
modules:
  modA:
    hwpath: /b
    hw: false
`, `
modules:
  modA:
    hwpath: /a
    hw: true
    swpath: sw/a
  modB:
    swpath: sw/b
    sw: false
`)
	res, err := ld.Load()
	require.NoError(t, err)
	require.Equal(t, "/prj", res.Settings.Project)
	require.True(t, res.Settings.Limit)
	require.Equal(t, "make all", res.Settings.Commands.Software)
	require.Equal(t, DefaultHardwareCmd, res.Settings.Commands.Hardware)
	require.Equal(t, []string{"moda", "modb"}, res.Names())

	modA, err := res.Module("ModA")
	require.NoError(t, err)
	require.Equal(t, ModuleDescriptor{Name: "moda", HwPath: "/b"}, modA)

	modB, err := res.Module("modb")
	require.NoError(t, err)
	require.False(t, SoftwareEnabled(modB))
}

func TestLoader_Load_projectMissing(t *testing.T) {
	ld := testLoader(t, `
settings:
  project: /prj
  config: /prj/none.yml
modules:
  top: {swpath: sw}
`, "")
	res, err := ld.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"top"}, res.Names())
}
