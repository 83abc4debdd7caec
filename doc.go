// Package modmk builds the modules of an FPGA project. A module has a hardware
// part, synthesized by the vendor tool from a TCL driver script, and a software
// part built by a shell script. Which parts exist, and where, is described in
// the merged configuration of the [config] package.
//
// A [Builder] runs the steps of a module in [BuildOrder]:
//
//	software: [pull] -> software command
//	hardware: [pull] -> [clean] -> PATH from setup script -> synthesis -> [log scan]
//
// Each step runs its external commands ([CmdOp]) in the step's own [WDir]
// with an explicit [modcore.Env]. Neither the working directory nor the
// environment of the running process is changed. The vendor PATH that
// [PathFromSetup] derives from the setup script is only visible to the
// commands of the hardware step.
//
// By default a failing step is recorded in the [Report] and the build goes on
// with the next step. With [Options].Strict the first failure ends the build.
//
// [config]: https://pkg.go.dev/git.fractalqb.de/fractalqb/modmk/config
package modmk
