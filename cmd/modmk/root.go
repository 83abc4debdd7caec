package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"git.fractalqb.de/fractalqb/modmk"
	"git.fractalqb.de/fractalqb/modmk/config"
	"git.fractalqb.de/fractalqb/modmk/modcore"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flags that override a boolean setting of the user configuration. Each has a
// negated --no-<flag> form.
var settingFlags = []struct {
	name, short, usage string
	set                func(*config.Settings, bool)
}{
	{"clean", "", "remove synthesis droppings before the hardware build",
		func(s *config.Settings, b bool) { s.Clean = b }},
	{"pull", "", "update the step directories before building",
		func(s *config.Settings, b bool) { s.Pull = b }},
	{"verbose", "v", "show the output of the build tools",
		func(s *config.Settings, b bool) { s.Verbose = b }},
	{"limit", "", "run build tools under cpulimit",
		func(s *config.Settings, b bool) { s.Limit = b }},
	{"strict", "", "stop at the first failing step and exit with status 2",
		func(s *config.Settings, b bool) { s.Strict = b }},
	{"logscan", "", "scan the synthesis log for errors",
		func(s *config.Settings, b bool) { s.LogScan = b }},
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "modmk [flags] <module>",
		Short: "Build FPGA hardware and embedded software of a module",
		Long: `modmk builds the software and then the hardware of a module. Module names
are case-insensitive.

Flags override the settings of the user configuration. Each flag can also be
set with an environment variable MODMK_<FLAG>, e.g. MODMK_STRICT=true or
MODMK_NO_CLEAN=true. A flag given on the command line beats the environment.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, v, args[0])
		},
	}
	flags := cmd.Flags()
	flags.String("config", "", "user configuration file (default $XDG_CONFIG_HOME/builder.yml)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	for _, sf := range settingFlags {
		flags.BoolP(sf.name, sf.short, false, sf.usage)
		flags.Bool("no-"+sf.name, false, "negation of --"+sf.name)
	}
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("MODMK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

// applyFlags overrides the settings s with flags and environment variables.
// Command line flags beat the environment. On the same level --no-<flag> wins
// over --<flag>.
func applyFlags(s *config.Settings, flags *pflag.FlagSet, v *viper.Viper) {
	for _, sf := range settingFlags {
		no := "no-" + sf.name
		switch {
		case flags.Changed(no) && v.GetBool(no):
			sf.set(s, false)
		case flags.Changed(sf.name):
			sf.set(s, v.GetBool(sf.name))
		case v.GetBool(no):
			sf.set(s, false)
		case v.IsSet(sf.name):
			sf.set(s, v.GetBool(sf.name))
		}
	}
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "modmk",
		ReportTimestamp: true,
	}), nil
}

// verboseLog lowers the level of lg to info in verbose mode.
func verboseLog(lg *log.Logger, verbose bool) {
	if verbose && lg.GetLevel() > log.InfoLevel {
		lg.SetLevel(log.InfoLevel)
	}
}

func traceFlag(level string, verbose bool) string {
	switch {
	case level == "debug":
		return "debug"
	case verbose || level == "info":
		return "info"
	}
	return "warn"
}

func runBuild(cmd *cobra.Command, v *viper.Viper, module string) error {
	flags := cmd.Flags()
	clg, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"))
	if err != nil {
		return &ExitError{Code: exitFatal, Err: err}
	}
	lg := slog.New(clg)

	ld, err := config.NewLoader(lg)
	if err != nil {
		return &ExitError{Code: exitFatal, Err: err}
	}
	if f := v.GetString("config"); f != "" {
		ld.UserPath = config.Expand(f)
	}
	cfg, err := ld.Load()
	if err != nil {
		return &ExitError{Code: exitFatal, Err: err}
	}
	applyFlags(&cfg.Settings, flags, v)
	verboseLog(clg, cfg.Settings.Verbose)

	tracer := modmk.DefaultTracer()
	tracer.W = cmd.ErrOrStderr()
	if err := tracer.ParseLogFlag(traceFlag(v.GetString("log-level"), cfg.Settings.Verbose)); err != nil {
		return &ExitError{Code: exitFatal, Err: err}
	}
	env := modcore.DefaultEnv(lg)
	env.Out = cmd.OutOrStdout()
	env.Err = cmd.ErrOrStderr()

	bd, err := modmk.NewBuilder(modcore.NewTrace(cmd.Context(), tracer), env, cfg)
	if err != nil {
		return &ExitError{Code: exitFatal, Err: err}
	}
	rep, err := bd.Module(module)
	var unknown *config.UnknownModule
	switch {
	case errors.As(err, &unknown):
		fmt.Fprintf(cmd.ErrOrStderr(), "unknown module '%s', available modules:\n", unknown.Requested)
		for _, m := range unknown.Available {
			fmt.Fprintln(cmd.ErrOrStderr(), "  -", m)
		}
		return &ExitError{Code: exitFatal, Err: err}
	case err != nil:
		return &ExitError{Code: exitStepFailed, Err: err}
	case rep.Failed() > 0:
		lg.Warn("module `module` built with `failed` failed steps",
			`module`, rep.Module,
			`failed`, rep.Failed(),
		)
		for _, s := range rep.FailedSteps() {
			lg.Warn("`step` failed: `error`", `step`, s.Step, `error`, s.Err)
		}
	}
	return nil
}
