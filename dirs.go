package modmk

import (
	"path/filepath"
)

// WDir is the working directory of a build step. Changing into a directory
// creates a new WDir that remembers where it came from. The process working
// directory is never changed.
type WDir struct {
	base *WDir
	pre  *WDir
	dir  string
}

// BaseDir returns the base directory all build steps start from and return
// to.
func BaseDir(dir string) *WDir {
	res := &WDir{dir: filepath.Clean(dir)}
	res.base = res
	res.pre = res
	return res
}

func (d *WDir) Dir() string { return d.dir }

func (d *WDir) IsBase() bool { return d == d.base }

func (d *WDir) String() string {
	rel, err := filepath.Rel(d.base.dir, d.dir)
	switch {
	case err != nil:
		return d.dir
	case rel == ".":
		return "/"
	}
	return rel
}

func (d *WDir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.dir}, elem...)...)
}

// Cd returns the directory dirs relative to d. An absolute element replaces
// everything before it.
func (d *WDir) Cd(dirs ...string) *WDir {
	res := d.dir
	for _, dir := range dirs {
		if filepath.IsAbs(dir) {
			res = filepath.Clean(dir)
		} else {
			res = filepath.Join(res, dir)
		}
	}
	return &WDir{
		base: d.base,
		pre:  d,
		dir:  res,
	}
}

func (d *WDir) Back() *WDir { return d.pre }

// Do calls f with d and returns the directory d came from along with the
// error of f. A panic in f is not recovered and Do returns nothing.
func (d *WDir) Do(f func(dir *WDir) error) (back *WDir, err error) {
	err = f(d)
	return d.Back(), err
}
