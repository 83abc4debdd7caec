// Package mkfs has the file system chores of module builds on top of
// [afero.Fs]: providing files that must exist and removing the droppings of
// build tools selected by [Filter]s.
package mkfs
