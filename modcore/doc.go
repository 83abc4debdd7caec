// Package modcore holds the process independent state of a module build: the
// exec environment handed to every external command and the trace that
// carries build progress to a [Tracer]. Nothing in here touches the process
// wide working directory or environment, which allows several builds to run
// in one process. The build orchestration itself lives in the [modmk]
// package.
//
// [modmk]: https://pkg.go.dev/git.fractalqb.de/fractalqb/modmk
package modcore
