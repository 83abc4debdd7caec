package modmk

import (
	"bytes"
	"io"
)

// tagWriter writes tag in front of every line written to w. It is used to
// mark the output of external tools with the build step that runs them.
type tagWriter struct {
	w      io.Writer
	tag    []byte
	inLine bool
}

func newTagWriter(w io.Writer, tag string) *tagWriter {
	return &tagWriter{w: w, tag: []byte(tag)}
}

func (tw *tagWriter) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if !tw.inLine {
			if _, err := tw.w.Write(tw.tag); err != nil {
				return n, err
			}
			tw.inLine = true
		}
		nl := bytes.IndexByte(p, '\n')
		if nl < 0 {
			m, err := tw.w.Write(p)
			return n + m, err
		}
		m, err := tw.w.Write(p[:nl+1])
		n += m
		if err != nil {
			return n, err
		}
		tw.inLine = false
		p = p[nl+1:]
	}
	return n, nil
}
