package mkfs

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Remove removes all entries of directory dir that pass filter. Matching
// directories are removed with their content. Subdirectories are not searched.
// With dryrun nothing is removed. The paths of the (to be) removed entries are
// returned in directory order.
func Remove(fsys afero.Fs, dir string, filter Filter, dryrun bool) (rm []string, err error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		path := filepath.Join(dir, info.Name())
		if ok, err := filter.Ok(path, info); err != nil {
			return rm, err
		} else if !ok {
			continue
		}
		if !dryrun {
			if err := fsys.RemoveAll(path); err != nil {
				return rm, err
			}
		}
		rm = append(rm, path)
	}
	return rm, nil
}
