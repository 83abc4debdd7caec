package mkfs

import (
	"io/fs"
	"path/filepath"
)

type Filter interface {
	Ok(path string, info fs.FileInfo) (bool, error)
}

type IsDir bool

func (d IsDir) Ok(_ string, i fs.FileInfo) (bool, error) {
	return i.IsDir() == bool(d), nil
}

// NameMatch matches the base name of a file against a [filepath.Match]
// pattern.
type NameMatch string

func (p NameMatch) Ok(_ string, i fs.FileInfo) (bool, error) {
	return filepath.Match(string(p), i.Name())
}

type All []Filter

func (fs All) Ok(p string, i fs.FileInfo) (bool, error) {
	for _, f := range fs {
		if ok, err := f.Ok(p, i); err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

type Any []Filter

func (fs Any) Ok(p string, i fs.FileInfo) (bool, error) {
	for _, f := range fs {
		if ok, err := f.Ok(p, i); err != nil {
			return ok, err
		} else if ok {
			return true, nil
		}
	}
	return false, nil
}

// Patterns returns a filter that matches any of the name patterns.
func Patterns(ps ...string) Any {
	res := make(Any, len(ps))
	for i, p := range ps {
		res[i] = NameMatch(p)
	}
	return res
}
