package modcore

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Tracer receives the progress of module builds. Implementations must not
// retain t beyond the call.
type Tracer interface {
	Debug(t *Trace, msg string, args ...any)
	Info(t *Trace, msg string, args ...any)
	Warn(t *Trace, msg string, args ...any)

	StartModule(t *Trace, module, dir string)
	DoneModule(t *Trace, module string, failed int, dt time.Duration)

	StartStep(t *Trace, step, dir string)
	SkipStep(t *Trace, step, reason string)
	DoneStep(t *Trace, step string, err error, dt time.Duration)

	RunOp(t *Trace, desc string)
}

type TraceLog int

var DefaultTraceLog TraceLog = TraceWarn

const (
	TraceWarn TraceLog = (1 << iota)
	TraceInfo
	TraceDebug
)

type traceKind int

const (
	traceNone traceKind = iota
	traceModule
	traceStep
)

// Trace is the position of a running build: the module and the step that is
// currently worked on.
type Trace struct {
	root *traceRoot
	up   *Trace
	kind traceKind
	name string
	id   uint64
}

type traceRoot struct {
	ctx   context.Context
	tr    Tracer
	idSeq atomic.Uint64
}

func NewTrace(ctx context.Context, t Tracer) *Trace {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Trace{root: &traceRoot{ctx: ctx, tr: t}}
}

func (t *Trace) Ctx() context.Context { return t.root.ctx }

func (t *Trace) Debug(msg string, args ...any) { t.root.tr.Debug(t, msg, args...) }
func (t *Trace) Info(msg string, args ...any)  { t.root.tr.Info(t, msg, args...) }
func (t *Trace) Warn(msg string, args ...any)  { t.root.tr.Warn(t, msg, args...) }

func (t *Trace) StartModule(module, dir string) *Trace {
	mt := t.push(traceModule, module)
	t.root.tr.StartModule(mt, module, dir)
	return mt
}

func (t *Trace) DoneModule(failed int, dt time.Duration) {
	t.root.tr.DoneModule(t, t.name, failed, dt)
}

func (t *Trace) StartStep(step, dir string) *Trace {
	st := t.push(traceStep, step)
	t.root.tr.StartStep(st, step, dir)
	return st
}

func (t *Trace) SkipStep(step, reason string) {
	t.root.tr.SkipStep(t, step, reason)
}

func (t *Trace) DoneStep(err error, dt time.Duration) {
	t.root.tr.DoneStep(t, t.name, err, dt)
}

func (t *Trace) RunOp(desc string) { t.root.tr.RunOp(t, desc) }

// Name returns the module or step name of the top trace element.
func (t *Trace) Name() string { return t.name }

func (t *Trace) TopID() uint64 { return t.id }

func (t *Trace) TopTag() string {
	switch t.kind {
	case traceModule:
		return fmt.Sprintf("{%s}", t.name)
	case traceStep:
		return fmt.Sprintf("[%s]", t.name)
	}
	return ""
}

func (t *Trace) Path() string {
	var tags []string
	for ; t != nil; t = t.up {
		if tag := t.TopTag(); tag != "" {
			tags = append(tags, tag)
		}
	}
	var sb strings.Builder
	sb.WriteByte('<')
	for i := len(tags) - 1; i >= 0; i-- {
		sb.WriteString(tags[i])
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t *Trace) String() string { return fmt.Sprintf("%d@%s", t.id, t.Path()) }

func (t *Trace) push(k traceKind, name string) *Trace {
	return &Trace{
		root: t.root,
		up:   t,
		kind: k,
		name: name,
		id:   t.root.idSeq.Add(1),
	}
}
