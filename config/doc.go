// Package config loads and merges the two configuration layers of modmk.
//
// The user file (by default ~/.config/builder.yml) carries the settings and
// optionally modules. It is created from a bundled default when missing. The
// project file, whose path is taken from the user's settings, may only add
// modules. Modules of both files are merged per name with the user's
// definition of a module replacing the project's definition as a whole.
// Module names are case-insensitive and stored lower-cased.
package config
