package modmk

import (
	"errors"
	"fmt"
	"strings"
)

var ErrCmdFailed = errors.New("external command failed")

// CmdFailed is returned when an external command could not be started or
// exited with non-zero status. ExitCode is -1 if the command did not run to
// completion.
type CmdFailed struct {
	Cmd      string
	Dir      string
	ExitCode int
	Err      error
}

func (e *CmdFailed) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("command `%s` in %s failed: %s", e.Cmd, e.Dir, e.Err)
	}
	return fmt.Sprintf("command `%s` in %s failed with exit code %d", e.Cmd, e.Dir, e.ExitCode)
}

func (e *CmdFailed) Unwrap() error { return e.Err }

func (*CmdFailed) Is(target error) bool { return target == ErrCmdFailed }

// SetupOutputError is returned when the output of an environment setup script
// does not have the derived PATH on its second line.
type SetupOutputError struct {
	Cmd   string
	Lines int
}

func (e *SetupOutputError) Error() string {
	return fmt.Sprintf("no PATH on line 2 of `%s` output (%d lines)", e.Cmd, e.Lines)
}

// LogErrors reports error markers found in a tool's log file.
type LogErrors struct {
	File  string
	Lines []string
}

func (e *LogErrors) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors in %s", len(e.Lines), e.File)
	if len(e.Lines) > 0 {
		sb.WriteString(": ")
		sb.WriteString(e.Lines[0])
	}
	return sb.String()
}

type StepDirMissing string

func (e StepDirMissing) Error() string {
	return fmt.Sprintf("build directory %s does not exist", string(e))
}
