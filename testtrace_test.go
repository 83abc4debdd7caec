package modmk

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/modmk/modcore"
	"git.fractalqb.de/fractalqb/testerr"
)

type TestTracer struct{ t *testing.T }

var _ modcore.Tracer = TestTracer{}

func (tr TestTracer) Debug(t *modcore.Trace, msg string, args ...any) {
	tr.t.Logf("modmk-DEBUG: %s %s %v", t.Path(), msg, args)
}

func (tr TestTracer) Info(t *modcore.Trace, msg string, args ...any) {
	tr.t.Logf("modmk-INFO: %s %s %v", t.Path(), msg, args)
}

func (tr TestTracer) Warn(t *modcore.Trace, msg string, args ...any) {
	tr.t.Logf("modmk-WARN: %s %s %v", t.Path(), msg, args)
}

func (tr TestTracer) StartModule(t *modcore.Trace, module, dir string) {
	tr.t.Logf("modmk-StartModule: %s in %s", module, dir)
}

func (tr TestTracer) DoneModule(t *modcore.Trace, module string, failed int, dt time.Duration) {
	tr.t.Logf("modmk-DoneModule: %s failed=%d %s", module, failed, dt)
}

func (tr TestTracer) StartStep(t *modcore.Trace, step, dir string) {
	tr.t.Logf("modmk-StartStep: %s in %s", t.Path(), dir)
}

func (tr TestTracer) SkipStep(t *modcore.Trace, step, reason string) {
	tr.t.Logf("modmk-SkipStep: %s %s: %s", t.Path(), step, reason)
}

func (tr TestTracer) DoneStep(t *modcore.Trace, step string, err error, dt time.Duration) {
	tr.t.Logf("modmk-DoneStep: %s err=%v %s", t.Path(), err, dt)
}

func (tr TestTracer) RunOp(t *modcore.Trace, desc string) {
	tr.t.Logf("modmk-RunOp: %s (%s)", t.Path(), desc)
}

// testEnv returns an environment that collects stdout in the returned buffer
// and drops log output.
func testEnv() (*modcore.Env, *bytes.Buffer) {
	var out bytes.Buffer
	env := modcore.DefaultEnv(slog.New(slog.DiscardHandler))
	env.Out = &out
	env.Err = os.Stderr
	return env, &out
}

func writeScript(t *testing.T, file, body string) {
	t.Helper()
	testerr.Shall(os.MkdirAll(filepath.Dir(file), 0777)).BeNil(t)
	testerr.Shall(os.WriteFile(file, []byte("#!/bin/sh\n"+body), 0755)).BeNil(t)
}
