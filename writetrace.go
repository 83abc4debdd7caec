package modmk

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/modmk/modcore"
	"git.fractalqb.de/fractalqb/sllm/v3"
)

// WriteTracer writes build progress as text lines to W.
type WriteTracer struct {
	W   io.Writer
	Log modcore.TraceLog
}

var _ modcore.Tracer = (*WriteTracer)(nil)

func DefaultTracer() *WriteTracer {
	return &WriteTracer{W: os.Stderr, Log: modcore.DefaultTraceLog}
}

func (tr *WriteTracer) ParseLogFlag(f string) error {
	switch f {
	case "":
		return nil
	case "off":
		tr.Log = 0
	case "warn", "w":
		tr.Log = modcore.TraceWarn
	case "info", "i":
		tr.Log = modcore.TraceWarn | modcore.TraceInfo
	case "debug", "d":
		tr.Log = modcore.TraceWarn | modcore.TraceInfo | modcore.TraceDebug
	default:
		return fmt.Errorf("write tracer: illegal log flag '%s'", f)
	}
	return nil
}

func (tr *WriteTracer) Debug(t *modcore.Trace, msg string, args ...any) {
	if tr.Log&modcore.TraceDebug == 0 {
		return
	}
	tr.msg(t, "DEBUG", msg, args)
}

func (tr *WriteTracer) Info(t *modcore.Trace, msg string, args ...any) {
	if tr.Log&(modcore.TraceInfo|modcore.TraceDebug) == 0 {
		return
	}
	tr.msg(t, "INFO ", msg, args)
}

func (tr *WriteTracer) Warn(t *modcore.Trace, msg string, args ...any) {
	if tr.Log&(modcore.TraceWarn|modcore.TraceInfo|modcore.TraceDebug) == 0 {
		return
	}
	tr.msg(t, "WARN ", msg, args)
}

func (tr *WriteTracer) StartModule(t *modcore.Trace, module, dir string) {
	fmt.Fprintf(tr.W, "%s\t{ build module '%s' in %s\n", t.Path(), module, dir)
}

func (tr *WriteTracer) DoneModule(t *modcore.Trace, module string, failed int, dt time.Duration) {
	if failed > 0 {
		fmt.Fprintf(tr.W, "%s\t} module '%s' had %d failed steps, took %s\n",
			t.Path(),
			module,
			failed,
			dt,
		)
		return
	}
	fmt.Fprintf(tr.W, "%s\t} module '%s' took %s\n", t.Path(), module, dt)
}

func (tr *WriteTracer) StartStep(t *modcore.Trace, step, dir string) {
	fmt.Fprintf(tr.W, "%s\t  start %s build in %s\n", t.Path(), step, dir)
}

func (tr *WriteTracer) SkipStep(t *modcore.Trace, step, reason string) {
	if tr.logSteps() {
		fmt.Fprintf(tr.W, "%s\t. skip %s build: %s\n", t.Path(), step, reason)
	}
}

func (tr *WriteTracer) DoneStep(t *modcore.Trace, step string, err error, dt time.Duration) {
	if err != nil {
		fmt.Fprintf(tr.W, "%s\t! %s build failed after %s: %s\n", t.Path(), step, dt, err)
		return
	}
	fmt.Fprintf(tr.W, "%s\t  finished %s build, took %s\n", t.Path(), step, dt)
}

func (tr *WriteTracer) RunOp(t *modcore.Trace, desc string) {
	if tr.logSteps() {
		fmt.Fprintf(tr.W, "%s\t  run (%s)\n", t.Path(), desc)
	}
}

func (tr *WriteTracer) logSteps() bool {
	return tr.Log&(modcore.TraceInfo|modcore.TraceDebug) != 0
}

func (tr *WriteTracer) msg(t *modcore.Trace, level, msg string, args []any) {
	fmt.Fprintf(tr.W, "%s\t  %s ", t.Path(), level)
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", n)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no key '%s'", n)
}
