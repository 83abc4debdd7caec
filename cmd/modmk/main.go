// Command modmk builds the FPGA hardware and the embedded software of one
// module of a project.
//
//	modmk [flags] <module>
//
// The modules and the project root are taken from the user configuration
// ~/.config/builder.yml and the project configuration it points to. A missing
// user configuration is created from a bundled default.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"
)

var Version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitFatal)
	}
}
