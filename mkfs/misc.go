package mkfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func IsFile(fsys afero.Fs, path string) bool {
	st, err := fsys.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// Provide writes content to path if, and only if, path does not exist yet.
// Missing parent directories are created with mode 0755. It reports whether
// the file was written.
func Provide(fsys afero.Fs, path string, content []byte, perm fs.FileMode) (bool, error) {
	if ok, err := Exists(fsys, path); err != nil || ok {
		return false, err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	w, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return false, err
	}
	if _, err = w.Write(content); err != nil {
		w.Close()
		return false, err
	}
	return true, w.Close()
}
