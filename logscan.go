package modmk

import (
	"bufio"
	"strings"

	"github.com/spf13/afero"
)

const (
	VivadoLog   = "vivado.log"
	VivadoError = "ERROR: ["
)

// HwCleanPatterns select the files a synthesis run leaves in the hardware
// directory.
var HwCleanPatterns = []string{"vivado*.log", "vivado*.jou", ".Xil"}

// ScanLog returns all lines of file that contain marker.
func ScanLog(fsys afero.Fs, file, marker string) (hits []string, err error) {
	r, err := fsys.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	scn := bufio.NewScanner(r)
	scn.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scn.Scan() {
		if line := scn.Text(); strings.Contains(line, marker) {
			hits = append(hits, line)
		}
	}
	return hits, scn.Err()
}
