package modmk

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"git.fractalqb.de/fractalqb/modmk/config"
	"git.fractalqb.de/fractalqb/modmk/mkfs"
	"git.fractalqb.de/fractalqb/modmk/modcore"
	"github.com/spf13/afero"
)

// Options control a build. [OptionsFrom] takes them from the settings of the
// user configuration.
type Options struct {
	Verbose bool
	Limit   bool
	// Strict stops at the first failing step. Otherwise a failed step is
	// reported and the build continues.
	Strict  bool
	LogScan bool
	Clean   bool
	Pull    bool
}

func OptionsFrom(s config.Settings) Options {
	return Options{
		Verbose: s.Verbose,
		Limit:   s.Limit,
		Strict:  s.Strict,
		LogScan: s.LogScan,
		Clean:   s.Clean,
		Pull:    s.Pull,
	}
}

// Builder builds the modules of a resolved configuration. A Builder runs one
// build at a time. Separate Builders do not share any state besides Config and
// may run concurrently.
//
// There is no timeout. An external tool that does not terminate blocks the
// build until the trace's context is canceled.
type Builder struct {
	Config  *config.Resolved
	Options Options
	// Limiter replaces DefaultLimiter when Options.Limit is set.
	Limiter []string
	Fs      afero.Fs

	trace *modcore.Trace
	env   *modcore.Env
	cwd   *WDir
}

func NewBuilder(tr *modcore.Trace, env *modcore.Env, cfg *config.Resolved) (*Builder, error) {
	if tr == nil {
		return nil, errors.New("no trace for new builder")
	}
	if cfg == nil {
		return nil, errors.New("no configuration for new builder")
	}
	if env == nil {
		env = modcore.DefaultEnv(nil)
	}
	return &Builder{
		Config:  cfg,
		Options: OptionsFrom(cfg.Settings),
		Fs:      afero.NewOsFs(),
		trace:   tr,
		env:     env,
		cwd:     BaseDir(cfg.Settings.Project),
	}, nil
}

// Cwd returns the working directory the builder is currently in. Outside of a
// build step this is the project root.
func (bd *Builder) Cwd() *WDir { return bd.cwd }

// Module builds the module with the case-insensitive name. Unknown modules
// yield an [*config.UnknownModule] error and nothing is built.
func (bd *Builder) Module(name string) (*Report, error) {
	d, err := bd.Config.Module(name)
	if err != nil {
		return nil, err
	}
	return bd.Build(d)
}

// Build runs the enabled steps of d in [BuildOrder]. Failed steps are
// recorded in the report. An error is only returned in strict mode or when the
// build was canceled.
func (bd *Builder) Build(d config.ModuleDescriptor) (*Report, error) {
	var (
		start = time.Now()
		ctx   = bd.trace.Ctx()
		base  = BaseDir(bd.Config.Settings.Project)
		rep   = &Report{Module: d.Name}
	)
	bd.cwd = base
	bd.env.Log.Info("build `module` in `project`", `module`, d.Name, `project`, base.Dir())
	mt := bd.trace.StartModule(d.Name, base.Dir())
	for _, step := range BuildOrder {
		res := StepResult{Step: step}
		switch {
		case !step.Enabled(d):
			res.Skipped = "disabled"
		case ctx.Err() != nil:
			res.Skipped = ctx.Err().Error()
		case bd.Options.Strict && rep.Failed() > 0:
			res.Skipped = "previous step failed"
		}
		if res.Skipped != "" {
			mt.SkipStep(step.String(), res.Skipped)
			rep.add(res)
			continue
		}
		wd := bd.cwd.Cd(bd.Config.Settings.Path(step.Path(d)))
		res.Dir = wd.Dir()
		st := mt.StartStep(step.String(), wd.String())
		t0 := time.Now()
		bd.cwd = wd
		bd.cwd, res.Err = wd.Do(func(wd *WDir) error { return bd.step(st, wd, step) })
		res.Took = time.Since(t0)
		st.DoneStep(res.Err, res.Took)
		rep.add(res)
	}
	mt.DoneModule(rep.Failed(), time.Since(start))
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	if bd.Options.Strict {
		return rep, rep.Err()
	}
	return rep, nil
}

func (bd *Builder) step(t *modcore.Trace, wd *WDir, kind StepKind) error {
	if ok, err := afero.DirExists(bd.Fs, wd.Dir()); err != nil {
		return err
	} else if !ok {
		return StepDirMissing(wd.Dir())
	}
	var (
		cmds = bd.Config.Settings.Commands
		env  = bd.env.Sub()
	)
	env.Out = newTagWriter(bd.env.Out, kind.Tag()+"| ")
	if bd.Options.Pull {
		if err := bd.run(t, wd, cmds.Pull, env, false); err != nil {
			t.Warn("`pull` failed, building current state: `error`",
				`pull`, cmds.Pull,
				`error`, err,
			)
		}
	}
	switch kind {
	case Software:
		return bd.run(t, wd, cmds.Software, env, bd.Options.Limit)
	case Hardware:
		if bd.Options.Clean {
			bd.clean(t, wd)
		}
		setup, err := ParseCmd(wd.Dir(), cmds.Environment)
		if err != nil {
			return err
		}
		t.RunOp(setup.Describe())
		path, err := PathFromSetup(t.Ctx(), setup, env)
		if err != nil {
			return fmt.Errorf("vendor environment: %w", err)
		}
		t.Info("vendor `PATH` from `setup`", `PATH`, path, `setup`, setup.Describe())
		if err := bd.run(t, wd, cmds.Hardware, env, bd.Options.Limit); err != nil {
			return err
		}
		if bd.Options.LogScan {
			return bd.scanLog(t, wd)
		}
		return nil
	}
	return fmt.Errorf("unknown build step %s", kind)
}

func (bd *Builder) run(t *modcore.Trace, wd *WDir, line string, env *modcore.Env, limit bool) error {
	op, err := ParseCmd(wd.Dir(), line)
	if err != nil {
		return err
	}
	op.Limit = limit
	op.Limiter = bd.Limiter
	op.Verbose = bd.Options.Verbose
	t.RunOp(op.Describe())
	return op.Run(t.Ctx(), env)
}

func (bd *Builder) clean(t *modcore.Trace, wd *WDir) {
	rm, err := mkfs.Remove(bd.Fs, wd.Dir(), mkfs.Patterns(HwCleanPatterns...), false)
	for _, f := range rm {
		t.Debug("removed `file`", `file`, f)
	}
	if err != nil {
		t.Warn("clean `dir`: `error`", `dir`, wd.String(), `error`, err)
	}
}

func (bd *Builder) scanLog(t *modcore.Trace, wd *WDir) error {
	file := wd.Join(VivadoLog)
	hits, err := ScanLog(bd.Fs, file, VivadoError)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		t.Warn("no `log` to scan", `log`, file)
		return nil
	case err != nil:
		return err
	case len(hits) > 0:
		return &LogErrors{File: file, Lines: hits}
	}
	return nil
}
