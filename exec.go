package modmk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/modmk/modcore"
	"mvdan.cc/sh/v3/shell"
)

// DefaultLimiter is the command prefix that restricts an external command to
// 75% of one CPU core. cpulimit itself always exits 0 in this mode.
var DefaultLimiter = []string{"cpulimit", "-l", "75", "-m", "-z", "-f", "--"}

// CmdOp runs one external command in directory Dir. The process working
// directory is not changed.
type CmdOp struct {
	Dir  string
	Exe  string
	Args []string
	// Limit runs the command under Limiter or, if Limiter is nil, under
	// DefaultLimiter.
	Limit   bool
	Limiter []string
	// Without Verbose the command's stdout is discarded.
	Verbose bool
	Desc    string
}

// ParseCmd splits line into words the way a POSIX shell would, expanding
// environment variables, and returns a CmdOp for dir.
func ParseCmd(dir, line string) (*CmdOp, error) {
	words, err := shell.Fields(line, nil)
	if err != nil {
		return nil, fmt.Errorf("command `%s`: %w", line, err)
	}
	if len(words) == 0 {
		return nil, errors.New("empty command")
	}
	return &CmdOp{Dir: dir, Exe: words[0], Args: words[1:]}, nil
}

func (op *CmdOp) Describe() string {
	if op.Desc == "" {
		if len(op.Args) == 0 {
			op.Desc = op.Exe
		} else {
			op.Desc = op.Exe + " " + strings.Join(op.Args, " ")
		}
	}
	return op.Desc
}

func (op *CmdOp) String() string { return op.Describe() }

// Run runs the command and waits for it to finish. A command that cannot be
// started or ends with non-zero exit status yields a [*CmdFailed].
func (op *CmdOp) Run(ctx context.Context, env *modcore.Env) error {
	if env == nil {
		env = modcore.DefaultEnv(nil)
	}
	stdout := io.Discard
	if op.Verbose {
		stdout = env.Out
	}
	return op.run(ctx, env, op.Limit, stdout)
}

// Output runs the command like [CmdOp.Run] but returns its stdout. Output
// never runs the command under a limiter.
func (op *CmdOp) Output(ctx context.Context, env *modcore.Env) ([]byte, error) {
	if env == nil {
		env = modcore.DefaultEnv(nil)
	}
	var out bytes.Buffer
	err := op.run(ctx, env, false, &out)
	return out.Bytes(), err
}

func (op *CmdOp) command(ctx context.Context, env *modcore.Env, limit bool) (*exec.Cmd, error) {
	exe, args := op.Exe, op.Args
	if limit {
		lim := op.Limiter
		if lim == nil {
			lim = DefaultLimiter
		}
		args = append(append(lim[1:len(lim):len(lim)], exe), op.Args...)
		exe = lim[0]
	}
	exe, err := LookPath(env, exe)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = op.Dir
	xenv, err := env.ExecEnv()
	if err != nil {
		env.Log.Warn(err.Error(), `cmd`, op.Describe())
	}
	cmd.Env = xenv
	cmd.Stdin = env.In
	cmd.Stderr = env.Err
	return cmd, nil
}

func (op *CmdOp) run(ctx context.Context, env *modcore.Env, limit bool, stdout io.Writer) error {
	cmd, err := op.command(ctx, env, limit)
	if err == nil {
		cmd.Stdout = stdout
		env.Log.Debug("exec `cmd` in `dir`",
			`cmd`, cmd.String(),
			`dir`, cmd.Dir,
		)
		if err = cmd.Run(); err == nil {
			return nil
		}
	}
	fail := &CmdFailed{
		Cmd:      op.Describe(),
		Dir:      op.Dir,
		ExitCode: -1,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		fail.ExitCode = exitErr.ExitCode()
	}
	env.Log.Error("failed `cmd` in `dir` with `exit`",
		`cmd`, fail.Cmd,
		`dir`, fail.Dir,
		`exit`, fail.ExitCode,
		`error`, err.Error(),
	)
	return fail
}

// LookPath finds the executable exe in the directories of env's PATH. Relative
// directories in PATH are ignored. If env has no PATH the process PATH is
// searched. An exe that contains a path separator is returned as is.
func LookPath(env *modcore.Env, exe string) (string, error) {
	if strings.ContainsRune(exe, filepath.Separator) {
		return exe, nil
	}
	path, ok := env.Tag("PATH")
	if !ok {
		return exec.LookPath(exe)
	}
	for _, dir := range filepath.SplitList(path) {
		if !filepath.IsAbs(dir) {
			continue
		}
		file := filepath.Join(dir, exe)
		if st, err := os.Stat(file); err == nil && st.Mode().IsRegular() && st.Mode()&0111 != 0 {
			return file, nil
		}
	}
	return "", &exec.Error{Name: exe, Err: exec.ErrNotFound}
}
