package modcore

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
)

// Env is the environment of external commands. Variables ("tags") are layered:
// a [Env.Sub] environment sees all tags of its parent unless it overrides or
// deletes them, and changing a sub environment never changes the parent.
type Env struct {
	In       io.Reader
	Out, Err io.Writer
	Log      *slog.Logger

	tags    map[string]string
	delt    map[string]bool
	xenv    []string
	xenvErr error
	parent  *Env
}

// DefaultEnv creates an environment from the process environment with the
// standard streams attached. A nil log is replaced by [slog.Default].
func DefaultEnv(log *slog.Logger) *Env {
	if log == nil {
		log = slog.Default()
	}
	env := &Env{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Log: log}
	env.SetTags(os.Environ()...)
	if _, ok := env.tags[""]; ok {
		log.Warn("ignoring process environment variable without name")
		env.DelTag("")
	}
	return env
}

// Sub returns a new environment layered on top of e. Streams and log are
// shared with e.
func (e *Env) Sub() *Env {
	return &Env{
		In: e.In, Out: e.Out, Err: e.Err,
		Log:    e.Log,
		parent: e,
	}
}

func (e *Env) Tag(key string) (string, bool) {
	for e != nil {
		if e.tags != nil {
			if v, ok := e.tags[key]; ok {
				return v, true
			}
		}
		if e.delt != nil && e.delt[key] {
			break
		}
		e = e.parent
	}
	return "", false
}

func (e *Env) SetTag(key, val string) {
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	e.tags[key] = val
	if e.delt != nil {
		delete(e.delt, key)
	}
	e.clearXEnv()
}

// SetTags sets tags from "key=value" strings as returned by [os.Environ]. A
// string without '=' sets the tag to the empty string.
func (e *Env) SetTags(env ...string) {
	for _, evar := range env {
		key, val, _ := strings.Cut(evar, "=")
		e.SetTag(key, val)
	}
}

func (e *Env) DelTag(key string) {
	delete(e.tags, key)
	if e.parent != nil {
		if e.delt == nil {
			e.delt = make(map[string]bool)
		}
		e.delt[key] = true
	}
	e.clearXEnv()
}

type NonXEnvKeys []string

func (e NonXEnvKeys) Error() string {
	return fmt.Sprintf("illegal exec env keys: %s", strings.Join(e, ", "))
}

func (NonXEnvKeys) Is(target error) bool {
	_, ok := target.(NonXEnvKeys)
	return ok
}

// ExecEnv returns the environment in the form used by [os/exec.Cmd]. Tags that
// cannot be passed to a process are left out and reported as [NonXEnvKeys].
// The result is sorted by key and never nil, so an empty Env gives the process
// an empty environment.
func (e *Env) ExecEnv() ([]string, error) {
	if e.xenv == nil {
		var errKeys []string
		tags := e.mergedTags()
		e.xenv = make([]string, 0, len(tags))
		for _, k := range slices.Sorted(maps.Keys(tags)) {
			switch {
			case k == "":
				errKeys = append(errKeys, `""`)
			case strings.ContainsRune(k, '='):
				errKeys = append(errKeys, k)
			default:
				e.xenv = append(e.xenv, k+"="+tags[k])
			}
		}
		if len(errKeys) > 0 {
			e.xenvErr = NonXEnvKeys(errKeys)
		}
	}
	return e.xenv, e.xenvErr
}

func (e *Env) clearXEnv() {
	e.xenv = nil
	e.xenvErr = nil
}

func (e *Env) mergedTags() map[string]string {
	if e.parent == nil {
		if e.tags == nil {
			return make(map[string]string)
		}
		return maps.Clone(e.tags)
	}
	mts := e.parent.mergedTags()
	for k := range e.delt {
		delete(mts, k)
	}
	maps.Copy(mts, e.tags)
	return mts
}
