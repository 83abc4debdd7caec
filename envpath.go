package modmk

import (
	"context"
	"strings"

	"git.fractalqb.de/fractalqb/modmk/modcore"
)

// PathLine is the line of the setup script's output that holds the PATH.
//
// The vendor setup script prints one preamble line before the PATH. A script
// version with a different preamble breaks PATH extraction.
const PathLine = 1

// PathFromSetup runs the environment setup script op, takes line [PathLine]
// of its output as PATH and sets it in env. Only env is changed, never the
// environment of the running process.
func PathFromSetup(ctx context.Context, op *CmdOp, env *modcore.Env) (string, error) {
	out, err := op.Output(ctx, env)
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(out), "\n")
	if len(lines) <= PathLine {
		return "", &SetupOutputError{Cmd: op.Describe(), Lines: len(lines)}
	}
	path := strings.TrimSuffix(lines[PathLine], "\r")
	if path == "" {
		return "", &SetupOutputError{Cmd: op.Describe(), Lines: len(lines)}
	}
	env.SetTag("PATH", path)
	env.Log.Debug("`PATH` from `setup`", `PATH`, path, `setup`, op.Describe())
	return path, nil
}
